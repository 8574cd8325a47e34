package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/service"
)

// PurchaseLedger is the purchase order workflow used by the handlers.
// Satisfied by *service.PurchaseService.
type PurchaseLedger interface {
	Submit(ctx context.Context, req service.SubmitPurchaseRequest) (*service.SubmitPurchaseResult, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveAt(ctx context.Context, index int) error
	List(ctx context.Context) (*service.PurchaseLedger, error)
}

// PurchaseOrderHandler handles supplier purchase order endpoints.
type PurchaseOrderHandler struct {
	ledger PurchaseLedger
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(ledger PurchaseLedger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{ledger: ledger}
}

// RegisterRoutes registers purchase order endpoints on the given Chi router.
// Expected to be mounted at /purchase-orders.
func (h *PurchaseOrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Submit)
	r.Delete("/{id}", h.Delete)
	r.Delete("/at/{index}", h.DeleteAt)
}

// --- Request / Response types ---

type submitPurchaseRequest struct {
	Item     string `json:"item"`
	Quantity int32  `json:"quantity"`
	Cost     string `json:"cost"`
}

type purchaseOrderResponse struct {
	ID        uuid.UUID `json:"id"`
	Item      string    `json:"item"`
	Quantity  int32     `json:"quantity"`
	Cost      string    `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

type purchaseLedgerResponse struct {
	Orders     []purchaseOrderResponse `json:"orders"`
	TotalSpent string                  `json:"total_spent"`
}

type submitPurchaseResponse struct {
	Order     purchaseOrderResponse `json:"order"`
	Inventory inventoryResponse     `json:"inventory"`
}

func toPurchaseOrderResponse(o database.PurchaseOrder) purchaseOrderResponse {
	return purchaseOrderResponse{
		ID:        o.ID,
		Item:      o.Item,
		Quantity:  o.Quantity,
		Cost:      database.NumericToString(o.Cost),
		CreatedAt: o.CreatedAt,
	}
}

// --- Handlers ---

// List returns every purchase order with the total spend.
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledger.List(r.Context())
	if err != nil {
		internalError(w, err, "list purchase orders")
		return
	}

	resp := purchaseLedgerResponse{
		Orders:     make([]purchaseOrderResponse, len(ledger.Orders)),
		TotalSpent: ledger.TotalSpent.StringFixed(2),
	}
	for i, o := range ledger.Orders {
		resp.Orders[i] = toPurchaseOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Submit records a purchase order and stocks the matching inventory entry.
func (h *PurchaseOrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.ledger.Submit(r.Context(), service.SubmitPurchaseRequest{
		Item:     req.Item,
		Quantity: req.Quantity,
		Cost:     req.Cost,
	})
	if err != nil {
		if isPurchaseValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, err, "submit purchase order")
		return
	}

	writeJSON(w, http.StatusCreated, submitPurchaseResponse{
		Order:     toPurchaseOrderResponse(result.Order),
		Inventory: toInventoryResponse(result.Inventory),
	})
}

// Delete removes a purchase order by id.
func (h *PurchaseOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid purchase order ID"})
		return
	}
	h.respondDelete(w, h.ledger.Remove(r.Context(), id))
}

// DeleteAt removes the purchase order at a list position.
func (h *PurchaseOrderHandler) DeleteAt(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
		return
	}
	h.respondDelete(w, h.ledger.RemoveAt(r.Context(), index))
}

// --- Helpers ---

func (h *PurchaseOrderHandler) respondDelete(w http.ResponseWriter, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseOrderNotFound), errors.Is(err, service.ErrPurchaseOrderIndex):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			internalError(w, err, "delete purchase order")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isPurchaseValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isPurchaseValidationError(err error) bool {
	return errors.Is(err, service.ErrItemRequired) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidCost)
}
