package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the purchase order ledger.
var (
	ErrItemRequired          = errors.New("item is required")
	ErrInvalidQuantity       = errors.New("quantity must be > 0")
	ErrInvalidCost           = errors.New("cost must be a number > 0 with at most 2 decimals")
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrPurchaseOrderIndex    = errors.New("purchase order index out of range")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PurchaseStore defines the DB methods the purchase order ledger needs.
// Satisfied by *database.Queries (and its WithTx variant).
type PurchaseStore interface {
	ListPurchaseOrders(ctx context.Context) ([]database.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, arg database.CreatePurchaseOrderParams) (database.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
}

// NewPurchaseStore creates a PurchaseStore from a DBTX (pool or tx).
type NewPurchaseStore func(db database.DBTX) PurchaseStore

// SubmitPurchaseRequest is the raw input for a purchase order.
type SubmitPurchaseRequest struct {
	Item     string
	Quantity int32
	Cost     string
}

// SubmitPurchaseResult holds both records written by a submission.
type SubmitPurchaseResult struct {
	Order     database.PurchaseOrder
	Inventory database.InventoryItem
}

// PurchaseLedger is the current list of orders with the spend over them.
type PurchaseLedger struct {
	Orders     []database.PurchaseOrder
	TotalSpent decimal.Decimal
}

// PurchaseService handles purchase order business logic.
type PurchaseService struct {
	pool     TxBeginner
	store    PurchaseStore
	newStore NewPurchaseStore
	notify   notifier
}

// NewPurchaseService creates a new PurchaseService. store serves reads and
// single-row deletes; newStore binds a store to the submission transaction.
func NewPurchaseService(pool TxBeginner, store PurchaseStore, newStore NewPurchaseStore, hub Broadcaster, bus EventPublisher) *PurchaseService {
	return &PurchaseService{
		pool:     pool,
		store:    store,
		newStore: newStore,
		notify:   notifier{hub: hub, bus: bus},
	}
}

// Submit records a purchase order and the inventory entry it stocks, in one
// transaction. The inventory entry uses the cost as its unit price.
func (s *PurchaseService) Submit(ctx context.Context, req SubmitPurchaseRequest) (*SubmitPurchaseResult, error) {
	// --- Validate ---
	item := strings.TrimSpace(req.Item)
	if item == "" {
		return nil, ErrItemRequired
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cost, err := decimal.NewFromString(strings.TrimSpace(req.Cost))
	if err != nil || !cost.IsPositive() || !database.IsCents(cost) {
		return nil, ErrInvalidCost
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CreatePurchaseOrder(ctx, database.CreatePurchaseOrderParams{
		Item:     item,
		Quantity: req.Quantity,
		Cost:     database.DecimalToNumeric(cost),
	})
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	stocked, err := store.CreateInventoryItem(ctx, database.CreateInventoryItemParams{
		Name:      item,
		Quantity:  req.Quantity,
		UnitPrice: database.DecimalToNumeric(cost),
	})
	if err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.notify.broadcast(enum.TopicPurchaseOrders, enum.EventPurchaseOrderCreated, order)
	s.notify.broadcast(enum.TopicInventory, enum.EventInventoryCreated, stocked)
	s.notify.publish(ctx, enum.EventPurchaseOrderCreated, order)

	return &SubmitPurchaseResult{Order: order, Inventory: stocked}, nil
}

// Remove deletes a purchase order by id. The inventory entry created with it
// is not touched.
func (s *PurchaseService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.DeletePurchaseOrder(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPurchaseOrderNotFound
		}
		return fmt.Errorf("delete purchase order: %w", err)
	}
	s.notify.broadcast(enum.TopicPurchaseOrders, enum.EventPurchaseOrderDeleted, map[string]string{"id": id.String()})
	return nil
}

// RemoveAt deletes the purchase order at the given position of the current
// list.
func (s *PurchaseService) RemoveAt(ctx context.Context, index int) error {
	orders, err := s.store.ListPurchaseOrders(ctx)
	if err != nil {
		return fmt.Errorf("list purchase orders: %w", err)
	}
	if index < 0 || index >= len(orders) {
		return ErrPurchaseOrderIndex
	}
	return s.Remove(ctx, orders[index].ID)
}

// List loads every purchase order and recomputes the total spend.
func (s *PurchaseService) List(ctx context.Context) (*PurchaseLedger, error) {
	orders, err := s.store.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return &PurchaseLedger{Orders: orders, TotalSpent: TotalSpent(orders)}, nil
}

// TotalSpent sums cost times quantity over orders.
func TotalSpent(orders []database.PurchaseOrder) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		cost := database.NumericToDecimal(o.Cost)
		sum = sum.Add(cost.Mul(decimal.NewFromInt32(o.Quantity)))
	}
	return sum
}
