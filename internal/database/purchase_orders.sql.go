package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listPurchaseOrders = `
SELECT id, item, quantity, cost, created_at
FROM purchase_orders
ORDER BY created_at, id
`

func (q *Queries) ListPurchaseOrders(ctx context.Context) ([]PurchaseOrder, error) {
	rows, err := q.db.Query(ctx, listPurchaseOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PurchaseOrder{}
	for rows.Next() {
		var i PurchaseOrder
		if err := rows.Scan(
			&i.ID,
			&i.Item,
			&i.Quantity,
			&i.Cost,
			&i.CreatedAt,
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

const createPurchaseOrder = `
INSERT INTO purchase_orders (item, quantity, cost)
VALUES ($1, $2, $3)
RETURNING id, item, quantity, cost, created_at
`

type CreatePurchaseOrderParams struct {
	Item     string
	Quantity int32
	Cost     pgtype.Numeric
}

func (q *Queries) CreatePurchaseOrder(ctx context.Context, arg CreatePurchaseOrderParams) (PurchaseOrder, error) {
	row := q.db.QueryRow(ctx, createPurchaseOrder, arg.Item, arg.Quantity, arg.Cost)
	var i PurchaseOrder
	err := row.Scan(
		&i.ID,
		&i.Item,
		&i.Quantity,
		&i.Cost,
		&i.CreatedAt,
	)
	return i, err
}

const deletePurchaseOrder = `
DELETE FROM purchase_orders
WHERE id = $1
RETURNING id
`

func (q *Queries) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deletePurchaseOrder, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
