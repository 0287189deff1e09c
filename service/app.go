package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quill/app/auth"
	"quill/app/config"
	"quill/app/repositories"
	"quill/app/routes"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources of a running blog server.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	repo     *repositories.Repository
	sessions *auth.SessionStore
	handler  http.Handler
}

// NewApp opens the database and session store and builds the router.
// Callers must Close the returned App.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := repositories.NewRepository(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	store, err := auth.OpenSessionStore(cfg.SessionDir, cfg.SessionTTL)
	if err != nil {
		repo.Close()
		return nil, err
	}

	router, err := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		DB:       repo,
		Sessions: auth.NewManager(store, repo.Users(), cfg.SecretKey, cfg.SecureCookies, log),
		Hasher:   auth.NewHasher(auth.DefaultParams),
		Log:      log,
	})
	if err != nil {
		store.Close()
		repo.Close()
		return nil, err
	}

	return &App{cfg: cfg, log: log, repo: repo, sessions: store, handler: router}, nil
}

// Close releases the session store and the database.
func (a *App) Close() error {
	return errors.Join(a.sessions.Close(), a.repo.Close())
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully, letting in-flight requests finish.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("blog server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down blog server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// RunAppServer runs the blog server until SIGINT or SIGTERM.
func RunAppServer(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 2
	}

	log := newLogger(cfg)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start blog server", slog.String("error", err.Error()))
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error("blog server stopped", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
