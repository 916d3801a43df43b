package api

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/api/handlers"
	"github.com/Harshitk-cp/credence/internal/buildconfig"
	mw "github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/config"
	"github.com/Harshitk-cp/credence/internal/registry"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Recompute *service.RecomputeService
}

func NewApp(db *pgxpool.Pool, reg *registry.Registry, logger *zap.Logger) *App {
	// Stores
	trustStore := store.NewTrustStore(db)
	assertionStore := store.NewAssertionStore(db)

	// Services
	trustSvc := service.NewTrustService(trustStore, assertionStore, reg, logger)
	trustSvc.Params.Sigma = config.SimilaritySigma()
	trustSvc.Params.MinOverlap = config.SimilarityMinOverlap()
	trustSvc.Params.MaxComparisons = config.MaxComparisons()
	trustSvc.Params.ConfidenceThreshold = config.ConfidenceThreshold()

	recomputeSvc := service.NewRecomputeService(trustSvc, logger)
	recomputeSvc.SetInterval(config.RecomputeInterval())

	// Handlers
	trustHandler := handlers.NewTrustHandler(trustSvc, trustStore, recomputeSvc)
	assertionHandler := handlers.NewAssertionHandler(trustSvc, assertionStore)
	controversyHandler := handlers.NewControversyHandler(trustSvc)

	// Metrics registry with process/runtime collectors
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := mw.NewMetrics(promReg)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Recompute: recomputeSvc,
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no versioning)
	r.Get("/health", healthHandler(db))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		// Explicit trust judgments
		r.Put("/trust", trustHandler.Set)
		r.Delete("/trust", trustHandler.Unset)
		r.Route("/trust/{targetId}", func(r chi.Router) {
			r.Get("/", trustHandler.Get)
			r.Get("/explanation", trustHandler.Explain)
		})

		// Per-user trust network
		r.Post("/users/{id}/network/recompute", trustHandler.RecomputeNetwork)

		// Assertions and feed scoring
		r.Route("/assertions", func(r chi.Router) {
			r.Post("/", assertionHandler.Create)
			r.Post("/feed", assertionHandler.Feed)
			r.Get("/{id}/trust", assertionHandler.GetTrust)
		})

		// Population disagreement
		r.Get("/controversy", controversyHandler.Get)

		// Legacy transitive propagation, debugging only
		r.Get("/debug/propagation", trustHandler.ExplainPropagation)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.String(),
		})
	}
}
