package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listInventoryItems = `
SELECT id, name, quantity, unit_price, created_at, updated_at
FROM inventory
ORDER BY created_at, id
`

func (q *Queries) ListInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listInventoryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []InventoryItem{}
	for rows.Next() {
		var i InventoryItem
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Quantity,
			&i.UnitPrice,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getInventoryItem = `
SELECT id, name, quantity, unit_price, created_at, updated_at
FROM inventory
WHERE id = $1
`

func (q *Queries) GetInventoryItem(ctx context.Context, id uuid.UUID) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, getInventoryItem, id)
	var i InventoryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createInventoryItem = `
INSERT INTO inventory (name, quantity, unit_price)
VALUES ($1, $2, $3)
RETURNING id, name, quantity, unit_price, created_at, updated_at
`

type CreateInventoryItemParams struct {
	Name      string
	Quantity  int32
	UnitPrice pgtype.Numeric
}

func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, createInventoryItem, arg.Name, arg.Quantity, arg.UnitPrice)
	var i InventoryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateInventoryItemPrice = `
UPDATE inventory
SET unit_price = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, quantity, unit_price, created_at, updated_at
`

type UpdateInventoryItemPriceParams struct {
	ID        uuid.UUID
	UnitPrice pgtype.Numeric
}

func (q *Queries) UpdateInventoryItemPrice(ctx context.Context, arg UpdateInventoryItemPriceParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, updateInventoryItemPrice, arg.ID, arg.UnitPrice)
	var i InventoryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteInventoryItem = `
DELETE FROM inventory
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteInventoryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteInventoryItem, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
