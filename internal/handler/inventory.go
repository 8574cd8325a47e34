package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// InventoryStore defines the database methods needed by inventory handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type InventoryStore interface {
	ListInventoryItems(ctx context.Context) ([]database.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	UpdateInventoryItemPrice(ctx context.Context, arg database.UpdateInventoryItemPriceParams) (database.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// Broadcaster pushes live updates to connected dashboards.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(topic, eventType string, payload any)
}

// InventoryHandler handles inventory ledger endpoints.
type InventoryHandler struct {
	store InventoryStore
	hub   Broadcaster
}

// NewInventoryHandler creates a new InventoryHandler. hub may be nil.
func NewInventoryHandler(store InventoryStore, hub Broadcaster) *InventoryHandler {
	return &InventoryHandler{store: store, hub: hub}
}

// RegisterRoutes registers inventory endpoints on the given Chi router.
// Expected to be mounted at /inventory.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}/price", h.UpdatePrice)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createInventoryRequest struct {
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type updatePriceRequest struct {
	UnitPrice string `json:"unit_price"`
}

type inventoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int32     `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toInventoryResponse(i database.InventoryItem) inventoryResponse {
	return inventoryResponse{
		ID:        i.ID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		UnitPrice: database.NumericToString(i.UnitPrice),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toInventoryResponses(items []database.InventoryItem) []inventoryResponse {
	resp := make([]inventoryResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryResponse(item)
	}
	return resp
}

// --- Handlers ---

// List returns the whole inventory ledger.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventoryItems(r.Context())
	if err != nil {
		internalError(w, err, "list inventory")
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponses(items))
}

// Create adds a new inventory item.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be > 0"})
		return
	}
	price, ok := parseMoney(req.UnitPrice)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be a number >= 0 with at most 2 decimals"})
		return
	}

	item, err := h.store.CreateInventoryItem(r.Context(), database.CreateInventoryItemParams{
		Name:      name,
		Quantity:  req.Quantity,
		UnitPrice: database.DecimalToNumeric(price),
	})
	if err != nil {
		internalError(w, err, "create inventory item")
		return
	}

	resp := toInventoryResponse(item)
	h.broadcast(enum.EventInventoryCreated, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// UpdatePrice changes the unit price of an inventory item. Quantity is not
// editable here.
func (h *InventoryHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory ID"})
		return
	}

	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	price, ok := parseMoney(req.UnitPrice)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be a number >= 0 with at most 2 decimals"})
		return
	}

	item, err := h.store.UpdateInventoryItemPrice(r.Context(), database.UpdateInventoryItemPriceParams{
		ID:        id,
		UnitPrice: database.DecimalToNumeric(price),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		internalError(w, err, "update inventory price")
		return
	}

	resp := toInventoryResponse(item)
	h.broadcast(enum.EventInventoryUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete removes an inventory item. Lines already captured in open orders
// keep their name and price.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory ID"})
		return
	}

	if _, err := h.store.DeleteInventoryItem(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		internalError(w, err, "delete inventory item")
		return
	}

	h.broadcast(enum.EventInventoryDeleted, map[string]string{"id": id.String()})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *InventoryHandler) broadcast(eventType string, payload any) {
	if h.hub != nil {
		h.hub.Broadcast(enum.TopicInventory, eventType, payload)
	}
}

// parseMoney accepts a non-negative decimal string with at most two decimal
// places.
func parseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || !database.IsCents(d) {
		return decimal.Zero, false
	}
	return d, true
}
