package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listEmployees = `
SELECT id, name, position, salary, created_at, updated_at
FROM employees
ORDER BY created_at, id
`

func (q *Queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listEmployees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Employee{}
	for rows.Next() {
		var i Employee
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Position,
			&i.Salary,
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

const createEmployee = `
INSERT INTO employees (name, position, salary)
VALUES ($1, $2, $3)
RETURNING id, name, position, salary, created_at, updated_at
`

type CreateEmployeeParams struct {
	Name     string
	Position string
	Salary   pgtype.Numeric
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, createEmployee, arg.Name, arg.Position, arg.Salary)
	var i Employee
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Position,
		&i.Salary,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateEmployee = `
UPDATE employees
SET name = $2, position = $3, salary = $4, updated_at = now()
WHERE id = $1
RETURNING id, name, position, salary, created_at, updated_at
`

type UpdateEmployeeParams struct {
	ID       uuid.UUID
	Name     string
	Position string
	Salary   pgtype.Numeric
}

func (q *Queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, updateEmployee, arg.ID, arg.Name, arg.Position, arg.Salary)
	var i Employee
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Position,
		&i.Salary,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteEmployee = `
DELETE FROM employees
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteEmployee(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteEmployee, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
