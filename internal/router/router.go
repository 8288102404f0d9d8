package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/francot77/cashflow-fp/internal/config"
	"github.com/francot77/cashflow-fp/internal/handler"
	"github.com/francot77/cashflow-fp/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Ledger *handler.LedgerHandler
	Report *handler.ReportHandler

	// HealthCheck probes downstream dependencies; nil means no probe.
	HealthCheck func(ctx context.Context) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if handlers.HealthCheck != nil {
			if err := handlers.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Use(middleware.Timeout(cfg.RequestTimeout))

		auth.Post("/login", handlers.Auth.Login)
		auth.Post("/register", handlers.Auth.Register)
		auth.With(authMiddleware.RequireAuth).Post("/refresh", handlers.Auth.Refresh)
		auth.Post("/validate", handlers.Auth.Validate)
		auth.With(authMiddleware.RequireAuth).Post("/logout", handlers.Auth.Logout)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.RequireIdentity)

		api.Get("/categories", handlers.Ledger.Categories)
		api.Get("/summary", handlers.Report.Summary)
		api.Get("/analytics", handlers.Report.Analytics)
		api.Post("/transactions", handlers.Ledger.CreateTransaction)
	})

	return r
}
