package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/payroll"
	"schooloffice/internal/domain/staff"
	"schooloffice/internal/platform/config"
	"schooloffice/internal/platform/crypto"
	"schooloffice/internal/platform/db"
	"schooloffice/internal/platform/jobs"
	"schooloffice/internal/platform/metrics"
	"schooloffice/internal/transport/http/api"
	audithandler "schooloffice/internal/transport/http/handlers/audit"
	authhandler "schooloffice/internal/transport/http/handlers/auth"
	ledgerhandler "schooloffice/internal/transport/http/handlers/ledger"
	payrollhandler "schooloffice/internal/transport/http/handlers/payroll"
	staffhandler "schooloffice/internal/transport/http/handlers/staff"
	"schooloffice/internal/transport/http/middleware"
)

type AuditService interface {
	audit.Recorder
	audithandler.EventLister
}

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Config  config.Config
	Login   authhandler.LoginService
	Staff   *staff.Service
	Ledger  *ledger.Service
	Payroll *payroll.Service
	Audit   AuditService
	Metrics *metrics.Collector
	Jobs    payrollhandler.JobQueue
	Ready   func(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	perms := auth.RolePermissionStore{}
	var observer middleware.RequestObserver
	var counter payrollhandler.CalculationCounter
	if deps.Metrics != nil {
		observer, counter = deps.Metrics, deps.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(observer))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.FrontendOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Total-Count", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(deps.Login, cfg.RateLimitPerMinute).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
			staffhandler.NewHandler(deps.Staff, perms, deps.Audit).RegisterRoutes(r)
			ledgerhandler.NewHandler(deps.Ledger, perms, deps.Audit).RegisterRoutes(r)
			payrollhandler.NewHandler(deps.Payroll, perms, deps.Audit, counter, deps.Jobs).RegisterRoutes(r)
			audithandler.NewHandler(deps.Audit, perms).RegisterRoutes(r)
		})
	})

	return router
}

// Run starts the API server and blocks until SIGINT or SIGTERM.
func Run() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return err
	}
	if !sealer.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set, bank accounts are stored unencrypted")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return err
		}
	}

	runner := jobs.New(jobs.NewStore(pool), 16)
	runner.Start(ctx)

	router := NewRouter(Deps{
		Config:  cfg,
		Login:   auth.NewService(auth.NewStore(pool), cfg.JWTSecret),
		Staff:   staff.NewService(staff.NewStore(pool, sealer)),
		Ledger:  ledger.NewService(ledger.NewStore(pool)),
		Payroll: payroll.NewService(payroll.NewStore(pool, sealer), cfg.Currency),
		Audit:   audit.New(pool),
		Metrics: metrics.New(),
		Jobs:    runner,
		Ready:   pool.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("school office server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
