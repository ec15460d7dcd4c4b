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

	"go-session-auth/internal/config"
	"go-session-auth/internal/database"
	"go-session-auth/internal/handler"
	"go-session-auth/internal/metrics"
	"go-session-auth/internal/middleware"
	"go-session-auth/internal/repository"
	"go-session-auth/internal/router"
	"go-session-auth/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	var cleanupFuncs []func()
	cleanup := func() {
		for _, fn := range cleanupFuncs {
			fn()
		}
	}

	users, err := newUserStore(context.Background(), cfg, &cleanupFuncs)
	if err != nil {
		cleanup()
		return nil, err
	}

	credentials, err := service.NewCredentialService(users, service.NewBcryptHasher(cfg.BcryptCost))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to initialize credential service: %w", err)
	}

	tokens, err := service.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService, err := service.NewAuthService(credentials, tokens)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	sessionMiddleware := middleware.NewSessionMiddleware(authService, router.RefreshPath)
	authHandler := handler.NewAuthHandler(authService, handler.AuthHandlerOptions{
		SecureCookies:         cfg.SecureCookies(),
		VerboseRegisterErrors: cfg.RegisterVerboseErrors,
	})

	appRouter := router.New(cfg, sessionMiddleware, authHandler, metrics.NewRegistry())

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanupFuncs}, nil
}

// newUserStore picks PostgreSQL when DATABASE_URL is set and the in-memory
// store otherwise. The memory store loses every account on restart.
func newUserStore(ctx context.Context, cfg *config.Config, cleanupFuncs *[]func()) (service.UserRepository, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set; using in-memory user store")
		return repository.NewMemoryUserRepository(), nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	*cleanupFuncs = append(*cleanupFuncs, db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	users := repository.NewUserRepository(db.Pool)
	count, err := users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	slog.Info("database ready", "users", count)

	return users, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
