package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// DefaultTableCount is the number of seating units when none is configured.
const DefaultTableCount = 12

// Errors returned by the table workflow.
var (
	ErrTableNotFound         = errors.New("table not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrEmptyCart             = errors.New("table has no items to check out")
)

var hundred = decimal.NewFromInt(100)

// TableStore defines the DB methods the table workflow needs.
// Satisfied by *database.Queries; narrow interface for testability.
type TableStore interface {
	GetInventoryItem(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	CreateSale(ctx context.Context, arg database.CreateSaleParams) (database.Sale, error)
}

// Table is a read-only snapshot of a seating unit.
type Table struct {
	ID     int        `json:"id"`
	Status string     `json:"status"`
	Items  []LineItem `json:"items"`
}

// Sale is a finalized checkout.
type Sale struct {
	ID              uuid.UUID       `json:"id"`
	TableID         int             `json:"table_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SaleFromRow decodes the stored items snapshot of a sale row.
func SaleFromRow(row database.Sale) (Sale, error) {
	var items []LineItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return Sale{}, fmt.Errorf("decode sale %s items: %w", row.ID, err)
	}
	return Sale{
		ID:              row.ID,
		TableID:         int(row.TableID),
		Items:           items,
		Subtotal:        database.NumericToDecimal(row.Subtotal),
		DiscountPercent: database.NumericToDecimal(row.DiscountPercent),
		Total:           database.NumericToDecimal(row.Total),
		CreatedAt:       row.CreatedAt,
	}, nil
}

// SalesFromRows decodes every row, stopping at the first bad snapshot.
func SalesFromRows(rows []database.Sale) ([]Sale, error) {
	sales := make([]Sale, 0, len(rows))
	for _, row := range rows {
		s, err := SaleFromRow(row)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// ClampDiscount returns d when it lies in [0, 100] and zero otherwise.
func ClampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero
	}
	return d
}

// ApplyDiscount returns subtotal * (1 - percent/100).
func ApplyDiscount(subtotal, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(hundred.Sub(percent)).Div(hundred)
}

type seatingUnit struct {
	id     int
	status string
	cart   Cart
}

func (u *seatingUnit) snapshot() Table {
	return Table{ID: u.id, Status: u.status, Items: u.cart.Items()}
}

// TableService owns the fixed set of in-memory seating units and turns their
// carts into sales at checkout.
type TableService struct {
	mu     sync.Mutex
	units  []*seatingUnit
	store  TableStore
	notify notifier
	now    func() time.Time
}

// NewTableService creates count seating units numbered from 1, all available
// and empty.
func NewTableService(count int, store TableStore, hub Broadcaster, bus EventPublisher) *TableService {
	if count <= 0 {
		count = DefaultTableCount
	}
	units := make([]*seatingUnit, count)
	for i := range units {
		units[i] = &seatingUnit{id: i + 1, status: enum.TableStatusAvailable}
	}
	return &TableService{
		units:  units,
		store:  store,
		notify: notifier{hub: hub, bus: bus},
		now:    time.Now,
	}
}

// Tables returns a snapshot of every seating unit in id order.
func (s *TableService) Tables() []Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Table, len(s.units))
	for i, u := range s.units {
		out[i] = u.snapshot()
	}
	return out
}

// Table returns a snapshot of one seating unit.
func (s *TableService) Table(id int) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.unit(id)
	if err != nil {
		return Table{}, err
	}
	return u.snapshot(), nil
}

// ToggleStatus flips the unit between available and occupied. Items are left
// untouched.
func (s *TableService) ToggleStatus(id int) (Table, error) {
	return s.mutate(id, func(u *seatingUnit) {
		if u.status == enum.TableStatusAvailable {
			u.status = enum.TableStatusOccupied
		} else {
			u.status = enum.TableStatusAvailable
		}
	})
}

// AddItem captures the name and current price of an inventory item and adds
// it to the unit's cart.
func (s *TableService) AddItem(ctx context.Context, id int, inventoryID uuid.UUID) (Table, error) {
	if _, err := s.Table(id); err != nil {
		return Table{}, err
	}

	item, err := s.store.GetInventoryItem(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Table{}, ErrInventoryItemNotFound
		}
		return Table{}, fmt.Errorf("get inventory item: %w", err)
	}
	price := database.NumericToDecimal(item.UnitPrice)

	return s.mutate(id, func(u *seatingUnit) {
		u.cart.Add(item.Name, price)
	})
}

// RemoveItem drops the line at index. An out-of-range index leaves the cart
// as it was.
func (s *TableService) RemoveItem(id, index int) (Table, error) {
	return s.mutate(id, func(u *seatingUnit) {
		u.cart.Remove(index)
	})
}

// Reset makes the unit available again with an empty cart.
func (s *TableService) Reset(id int) (Table, error) {
	return s.mutate(id, func(u *seatingUnit) {
		u.status = enum.TableStatusAvailable
		u.cart.Clear()
	})
}

// Checkout records a sale from the unit's current cart. The discount is
// clamped to [0, 100] and rounded to cents before use. The unit itself is not reset; a failed
// write leaves everything as it was.
func (s *TableService) Checkout(ctx context.Context, id int, discountPercent decimal.Decimal) (Sale, error) {
	t, err := s.Table(id)
	if err != nil {
		return Sale{}, err
	}
	if len(t.Items) == 0 {
		return Sale{}, ErrEmptyCart
	}

	// Sales store cent values; the total is derived from the rounded discount.
	discount := ClampDiscount(discountPercent).Round(2)
	subtotal := Subtotal(t.Items)
	total := ApplyDiscount(subtotal, discount).Round(2)

	snapshot, err := json.Marshal(t.Items)
	if err != nil {
		return Sale{}, fmt.Errorf("encode items: %w", err)
	}

	row, err := s.store.CreateSale(ctx, database.CreateSaleParams{
		TableID:         int32(t.ID),
		Items:           snapshot,
		Subtotal:        database.DecimalToNumeric(subtotal),
		DiscountPercent: database.DecimalToNumeric(discount),
		Total:           database.DecimalToNumeric(total),
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return Sale{}, fmt.Errorf("create sale: %w", err)
	}

	sale, err := SaleFromRow(row)
	if err != nil {
		return Sale{}, err
	}

	s.notify.broadcast(enum.TopicSales, enum.EventSaleCreated, sale)
	s.notify.publish(ctx, enum.EventSaleCreated, sale)
	return sale, nil
}

// mutate applies fn to the unit under the lock and broadcasts the result.
func (s *TableService) mutate(id int, fn func(u *seatingUnit)) (Table, error) {
	s.mu.Lock()
	u, err := s.unit(id)
	if err != nil {
		s.mu.Unlock()
		return Table{}, err
	}
	fn(u)
	t := u.snapshot()
	s.mu.Unlock()

	s.notify.broadcast(enum.TopicTables, enum.EventTableUpdated, t)
	return t, nil
}

// unit must be called with s.mu held.
func (s *TableService) unit(id int) (*seatingUnit, error) {
	if id < 1 || id > len(s.units) {
		return nil, ErrTableNotFound
	}
	return s.units[id-1], nil
}
