package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesa-pos/api/internal/enum"
	"github.com/mesa-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// TableWorkflow is the seating unit workflow used by the table handlers.
// Satisfied by *service.TableService.
type TableWorkflow interface {
	Tables() []service.Table
	Table(id int) (service.Table, error)
	ToggleStatus(id int) (service.Table, error)
	AddItem(ctx context.Context, id int, inventoryID uuid.UUID) (service.Table, error)
	RemoveItem(id, index int) (service.Table, error)
	Reset(id int) (service.Table, error)
	Checkout(ctx context.Context, id int, discountPercent decimal.Decimal) (service.Sale, error)
}

// TableHandler handles seating unit endpoints.
type TableHandler struct {
	tables TableWorkflow
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(tables TableWorkflow) *TableHandler {
	return &TableHandler{tables: tables}
}

// RegisterRoutes registers table endpoints on the given Chi router.
// Expected to be mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/toggle", h.Toggle)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{index}", h.RemoveItem)
		r.Post("/checkout", h.Checkout)
		r.Post("/reset", h.Reset)
	})
}

// --- Request / Response types ---

type addItemRequest struct {
	InventoryID string `json:"inventory_id"`
}

type checkoutRequest struct {
	DiscountPercent string `json:"discount_percent"`
}

type lineItemResponse struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type tableResponse struct {
	ID       int                `json:"id"`
	Status   string             `json:"status"`
	Items    []lineItemResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
}

type saleResponse struct {
	ID              uuid.UUID          `json:"id"`
	TableID         int                `json:"table_id"`
	Items           []lineItemResponse `json:"items"`
	Subtotal        string             `json:"subtotal"`
	DiscountPercent string             `json:"discount_percent"`
	Total           string             `json:"total"`
	CreatedAt       time.Time          `json:"created_at"`
}

func toLineItemResponses(items []service.LineItem) []lineItemResponse {
	resp := make([]lineItemResponse, len(items))
	for i, li := range items {
		resp[i] = lineItemResponse{
			Name:      li.Name,
			UnitPrice: li.UnitPrice.StringFixed(2),
			Quantity:  li.Quantity,
			LineTotal: li.LineTotal().StringFixed(2),
		}
	}
	return resp
}

func toTableResponse(t service.Table) tableResponse {
	return tableResponse{
		ID:       t.ID,
		Status:   t.Status,
		Items:    toLineItemResponses(t.Items),
		Subtotal: service.Subtotal(t.Items).StringFixed(2),
	}
}

func toSaleResponse(s service.Sale) saleResponse {
	return saleResponse{
		ID:              s.ID,
		TableID:         s.TableID,
		Items:           toLineItemResponses(s.Items),
		Subtotal:        s.Subtotal.StringFixed(2),
		DiscountPercent: s.DiscountPercent.StringFixed(2),
		Total:           s.Total.StringFixed(2),
		CreatedAt:       s.CreatedAt,
	}
}

// --- Handlers ---

// List returns every seating unit. ?status=available|occupied filters them.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != enum.TableStatusAvailable && status != enum.TableStatusOccupied {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	resp := []tableResponse{}
	for _, t := range h.tables.Tables() {
		if status != "" && t.Status != status {
			continue
		}
		resp = append(resp, toTableResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one seating unit.
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	t, err := h.tables.Table(id)
	h.respondTable(w, t, err, "get table")
}

// Toggle flips a seating unit between available and occupied.
func (h *TableHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	t, err := h.tables.ToggleStatus(id)
	h.respondTable(w, t, err, "toggle table")
}

// AddItem adds one unit of an inventory item to the seating unit's order.
func (h *TableHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	inventoryID, err := uuid.Parse(req.InventoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory_id"})
		return
	}

	t, err := h.tables.AddItem(r.Context(), id, inventoryID)
	h.respondTable(w, t, err, "add table item")
}

// RemoveItem removes the line at the given index. Out-of-range indices leave
// the order unchanged.
func (h *TableHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	t, err := h.tables.RemoveItem(id, index)
	h.respondTable(w, t, err, "remove table item")
}

// Reset empties the seating unit and marks it available.
func (h *TableHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	t, err := h.tables.Reset(id)
	h.respondTable(w, t, err, "reset table")
}

// Checkout records a sale from the seating unit's order.
func (h *TableHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}

	// An empty body means no discount.
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	discount := decimal.Zero
	if s := strings.TrimSpace(req.DiscountPercent); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid discount_percent"})
			return
		}
		discount = d
	}

	sale, err := h.tables.Checkout(r.Context(), id, discount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyCart):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			internalError(w, err, "checkout")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toSaleResponse(sale))
}

// --- Helpers ---

func tableID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return 0, false
	}
	return id, true
}

func (h *TableHandler) respondTable(w http.ResponseWriter, t service.Table, err error, op string) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound), errors.Is(err, service.ErrInventoryItemNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			internalError(w, err, op)
		}
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(t))
}
