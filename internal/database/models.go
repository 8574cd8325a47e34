package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Employee struct {
	ID        uuid.UUID
	Name      string
	Position  string
	Salary    pgtype.Numeric
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InventoryItem struct {
	ID        uuid.UUID
	Name      string
	Quantity  int32
	UnitPrice pgtype.Numeric
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PurchaseOrder struct {
	ID        uuid.UUID
	Item      string
	Quantity  int32
	Cost      pgtype.Numeric
	CreatedAt time.Time
}

// Sale is a finalized checkout. Items holds the JSON-encoded line item
// snapshot taken at checkout time.
type Sale struct {
	ID              uuid.UUID
	TableID         int32
	Items           []byte
	Subtotal        pgtype.Numeric
	DiscountPercent pgtype.Numeric
	Total           pgtype.Numeric
	CreatedAt       time.Time
}
