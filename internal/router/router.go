package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mesa-pos/api/internal/auth"
	"github.com/mesa-pos/api/internal/config"
	"github.com/mesa-pos/api/internal/database"
	"github.com/mesa-pos/api/internal/handler"
	"github.com/mesa-pos/api/internal/logger"
	mw "github.com/mesa-pos/api/internal/middleware"
	"github.com/mesa-pos/api/internal/service"
	"github.com/mesa-pos/api/internal/session"
	"github.com/mesa-pos/api/internal/ws"
	"github.com/rs/zerolog/log"
)

// New creates a Chi router with all application routes wired up.
// Everything except login, health and the websocket requires a live session.
// bus may be nil when no message broker is configured.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, sessions *session.Manager, bus service.EventPublisher) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(auth.NewAuthenticator(queries), sessions, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, sessions, w, r)
	})

	tables := service.NewTableService(cfg.TableCount, queries, hub, bus)
	purchases := service.NewPurchaseService(pool, queries, func(db database.DBTX) service.PurchaseStore {
		return database.New(db)
	}, hub, bus)

	// Protected routes (require a live session)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret, sessions))

		authHandler.RegisterProtectedRoutes(r)

		dashboardHandler := handler.NewDashboardHandler(tables, queries)
		dashboardHandler.RegisterRoutes(r)

		tableHandler := handler.NewTableHandler(tables)
		r.Route("/tables", tableHandler.RegisterRoutes)

		inventoryHandler := handler.NewInventoryHandler(queries, hub)
		r.Route("/inventory", inventoryHandler.RegisterRoutes)

		employeeHandler := handler.NewEmployeeHandler(queries)
		r.Route("/employees", employeeHandler.RegisterRoutes)

		purchaseHandler := handler.NewPurchaseOrderHandler(purchases)
		r.Route("/purchase-orders", purchaseHandler.RegisterRoutes)

		salesHandler := handler.NewSalesHandler(queries)
		r.Route("/sales", salesHandler.RegisterRoutes)
	})

	log.Info().Int("tables", cfg.TableCount).Msg("router initialized")
	return r
}
