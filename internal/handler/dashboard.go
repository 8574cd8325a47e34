package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mesa-pos/api/internal/database"
	mw "github.com/mesa-pos/api/internal/middleware"
	"github.com/mesa-pos/api/internal/service"
	"github.com/mesa-pos/api/internal/session"
)

// TableLister lists seating units.
// Satisfied by *service.TableService.
type TableLister interface {
	Tables() []service.Table
}

// InventoryLister lists the inventory ledger.
// Satisfied by *database.Queries.
type InventoryLister interface {
	ListInventoryItems(ctx context.Context) ([]database.InventoryItem, error)
}

// DashboardHandler serves the landing view of a signed-in session.
type DashboardHandler struct {
	tables    TableLister
	inventory InventoryLister
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(tables TableLister, inventory InventoryLister) *DashboardHandler {
	return &DashboardHandler{tables: tables, inventory: inventory}
}

// RegisterRoutes registers the dashboard endpoint on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}

type dashboardResponse struct {
	Identifier string              `json:"identifier"`
	Tables     []tableResponse     `json:"tables"`
	Inventory  []inventoryResponse `json:"inventory"`
}

// Get returns the session identifier, the seating units and the menu.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not logged in", "redirect": mw.LoginPath})
		return
	}

	items, err := h.inventory.ListInventoryItems(r.Context())
	if err != nil {
		internalError(w, err, "list inventory")
		return
	}

	tables := h.tables.Tables()
	resp := dashboardResponse{
		Identifier: sess.Identifier,
		Tables:     make([]tableResponse, len(tables)),
		Inventory:  toInventoryResponses(items),
	}
	for i, t := range tables {
		resp.Tables[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}
