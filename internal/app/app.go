package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-admin/internal/config"
	"school-admin/internal/database"
	"school-admin/internal/event"
	"school-admin/internal/handler"
	"school-admin/internal/middleware"
	"school-admin/internal/repository"
	"school-admin/internal/router"
	"school-admin/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// Stores are the persistence backends a server is assembled from.
type Stores struct {
	School    repository.SchoolStore
	Operators repository.OperatorStore
	Audit     repository.AuditStore
	Health    func(ctx context.Context) error
}

// MemoryStores backs every store with one in-process MemoryStore.
func MemoryStores() Stores {
	mem := repository.NewMemoryStore()
	return Stores{School: mem, Operators: mem, Audit: mem}
}

func New() (*App, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{cleanupFuncs: []func(){cancel}}

	stores := MemoryStores()
	if cfg.DatabaseURL != "" {
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, int32(cfg.DatabaseMaxConns))
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.cleanupFuncs = append(app.cleanupFuncs, db.Close)

		if err := db.EnsureSchema(ctx); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		stores = Stores{
			School:    repository.NewSchoolRepository(db.Pool),
			Operators: repository.NewOperatorRepository(db.Pool),
			Audit:     repository.NewAuditRepository(db.Pool),
			Health:    db.Health,
		}
		slog.Info("database ready")
	} else {
		slog.Warn("DATABASE_URL not set; using in-memory store")
	}

	appRouter, err := Handler(ctx, cfg, stores)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return app, nil
}

// Handler wires services, handlers and middleware over stores. It seeds the
// first admin operator and, when configured, the demo data. The audit
// recorder runs until ctx is cancelled.
func Handler(ctx context.Context, cfg *config.Server, stores Stores) (http.Handler, error) {
	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, stores.Operators)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	generated, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin operator: %w", err)
	}
	if generated != "" {
		slog.Warn("ADMIN_PASSWORD not set; generated a one-time admin password", "username", cfg.AdminUsername, "password", generated)
	}

	if cfg.SeedDemoData {
		if err := repository.SeedDemo(ctx, stores.School); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	bus := event.NewBus()
	auditService := service.NewAuditService(stores.Audit)
	go auditService.Run(ctx, bus)

	return router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Classroom: handler.NewClassroomHandler(service.NewClassroomService(stores.School, bus)),
		Student:   handler.NewStudentHandler(service.NewStudentService(stores.School, bus)),
		Audit:     handler.NewAuditHandler(auditService),
		Health:    stores.Health,
	}), nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cleanup()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.cleanup()

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
