package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listSales = `
SELECT id, table_id, items, subtotal, discount_percent, total, created_at
FROM sales
ORDER BY created_at, id
`

func (q *Queries) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := q.db.Query(ctx, listSales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Sale{}
	for rows.Next() {
		var i Sale
		if err := rows.Scan(
			&i.ID,
			&i.TableID,
			&i.Items,
			&i.Subtotal,
			&i.DiscountPercent,
			&i.Total,
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

const getSale = `
SELECT id, table_id, items, subtotal, discount_percent, total, created_at
FROM sales
WHERE id = $1
`

func (q *Queries) GetSale(ctx context.Context, id uuid.UUID) (Sale, error) {
	row := q.db.QueryRow(ctx, getSale, id)
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.TableID,
		&i.Items,
		&i.Subtotal,
		&i.DiscountPercent,
		&i.Total,
		&i.CreatedAt,
	)
	return i, err
}

const createSale = `
INSERT INTO sales (table_id, items, subtotal, discount_percent, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, table_id, items, subtotal, discount_percent, total, created_at
`

type CreateSaleParams struct {
	TableID         int32
	Items           []byte
	Subtotal        pgtype.Numeric
	DiscountPercent pgtype.Numeric
	Total           pgtype.Numeric
	CreatedAt       time.Time
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error) {
	row := q.db.QueryRow(ctx, createSale,
		arg.TableID,
		arg.Items,
		arg.Subtotal,
		arg.DiscountPercent,
		arg.Total,
		arg.CreatedAt,
	)
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.TableID,
		&i.Items,
		&i.Subtotal,
		&i.DiscountPercent,
		&i.Total,
		&i.CreatedAt,
	)
	return i, err
}
