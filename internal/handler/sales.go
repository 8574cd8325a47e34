package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/receipt"
	"github.com/mesa-pos/api/internal/service"
)

// SalesStore defines the database methods needed by sales handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SalesStore interface {
	ListSales(ctx context.Context) ([]database.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (database.Sale, error)
}

// SalesHandler handles sales history, ranking and receipt endpoints.
type SalesHandler struct {
	store SalesStore
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(store SalesStore) *SalesHandler {
	return &SalesHandler{store: store}
}

// RegisterRoutes registers sales endpoints on the given Chi router.
// Expected to be mounted at /sales.
func (h *SalesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/top-sellers", h.TopSellers)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/receipt", h.Receipt)
}

// --- Handlers ---

// List returns every finalized sale, oldest first.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, ok := h.loadSales(w, r)
	if !ok {
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toSaleResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// TopSellers ranks item names by quantity sold. ?limit overrides the
// default of five.
func (h *SalesHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	limit := service.TopSellerLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	sales, ok := h.loadSales(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, service.TopSellers(sales, limit))
}

// Get returns one sale.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadSale(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSaleResponse(sale))
}

// Receipt renders one sale as a PDF.
func (h *SalesHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadSale(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := receipt.FromSale(sale).Render(&buf); err != nil {
		internalError(w, err, "render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receipt-table-`+strconv.Itoa(sale.TableID)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// --- Helpers ---

func (h *SalesHandler) loadSales(w http.ResponseWriter, r *http.Request) ([]service.Sale, bool) {
	rows, err := h.store.ListSales(r.Context())
	if err != nil {
		internalError(w, err, "list sales")
		return nil, false
	}
	sales, err := service.SalesFromRows(rows)
	if err != nil {
		internalError(w, err, "decode sales")
		return nil, false
	}
	return sales, true
}

func (h *SalesHandler) loadSale(w http.ResponseWriter, r *http.Request) (service.Sale, bool) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return service.Sale{}, false
	}

	row, err := h.store.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sale not found"})
			return service.Sale{}, false
		}
		internalError(w, err, "get sale")
		return service.Sale{}, false
	}

	sale, err := service.SaleFromRow(row)
	if err != nil {
		internalError(w, err, "decode sale")
		return service.Sale{}, false
	}
	return sale, true
}
