package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evals/internal/domain/auth"
	"evals/internal/domain/cycles"
	"evals/internal/domain/directory"
	"evals/internal/domain/evidence"
	"evals/internal/domain/notifications"
	"evals/internal/domain/reports"
	"evals/internal/domain/scoring"
	"evals/internal/domain/templates"
	"evals/internal/domain/workflow"
	"evals/internal/platform/config"
	"evals/internal/platform/db"
	"evals/internal/platform/metrics"
	authhandler "evals/internal/transport/http/handlers/auth"
	cycleshandler "evals/internal/transport/http/handlers/cycles"
	directoryhandler "evals/internal/transport/http/handlers/directory"
	evidencehandler "evals/internal/transport/http/handlers/evidence"
	notificationshandler "evals/internal/transport/http/handlers/notifications"
	reportshandler "evals/internal/transport/http/handlers/reports"
	sheetshandler "evals/internal/transport/http/handlers/sheets"
	templateshandler "evals/internal/transport/http/handlers/templates"
	"evals/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	router := NewRouter(cfg, pool)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("evals server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	graceCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(graceCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

// NewRouter wires every store, service and handler onto one chi router.
func NewRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	authStore := auth.NewStore(pool)
	directoryService := directory.NewService(directory.NewStore(pool))
	templatesService := templates.NewService(templates.NewStore(pool))
	cyclesService := cycles.NewService(cycles.NewStore(pool), directoryService, templatesService)
	workflowService := workflow.NewService(workflow.NewStore(pool), directoryService, workflow.Guards{Bypass: cfg.GuardBypass})
	scoringService := scoring.NewService(scoring.NewStore(pool), cfg.EvidenceThreshold)
	evidenceService := evidence.NewService(evidence.NewStore(pool))
	notificationsService := notifications.New(notifications.NewStore(pool))
	reportsService := reports.NewService(reports.NewStore(pool), scoringService, workflowService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if collector != nil {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(collector.Registry, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret)
		r.With(middleware.RateLimit(10, time.Minute, middleware.LoginKey)).
			Post("/auth/login", authHandler.HandleLogin)

		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		templateshandler.NewHandler(templatesService, collector).RegisterRoutes(r)
		cycleshandler.NewHandler(cyclesService, collector).RegisterRoutes(r)
		sheetshandler.NewHandler(workflowService, scoringService, directoryService, notificationsService, collector).RegisterRoutes(r)
		evidencehandler.NewHandler(evidenceService).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationsService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
	})

	return router
}
