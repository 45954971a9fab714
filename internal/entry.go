// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/inkwell/internal/api"
	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/leads"
	"github.com/starford/inkwell/internal/mcpserver"
	"github.com/starford/inkwell/internal/sse"
	"github.com/starford/inkwell/internal/storage"
	"github.com/starford/inkwell/internal/watch"
)

var errConfigRequired = errors.New("config is required")

// NewLogger returns a JSON logger writing to w at level.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewPostService builds the content engine described by cfg.
func NewPostService(cfg *Config, logger *slog.Logger) (*blog.Service, *storage.FS, error) {
	store, err := storage.NewFS(cfg.Content.Path, cfg.Content.Extensions...)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	svc := blog.NewService(store,
		blog.WithLogger(logger),
		blog.WithDefaults(blog.Defaults{
			Title:    cfg.Content.Defaults.Title,
			Author:   cfg.Content.Defaults.Author,
			Category: cfg.Content.Defaults.Category,
		}),
		blog.WithWordsPerMinute(cfg.Content.WordsPerMinute),
		blog.WithWorkers(cfg.Content.Workers),
		blog.WithRequireDate(cfg.Content.RequireDate),
	)
	return svc, store, nil
}

// Run starts the HTTP server with the given options and blocks until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := NewLogger(cfg.App.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("assets_path", cfg.Content.AssetsPath),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("lead_forms", len(cfg.Leads.Forms)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	posts, store, err := NewPostService(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Content store ready",
		slog.String("root", store.Root()),
		slog.Any("extensions", store.Extensions()))

	drafts, err := leads.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init drafts: %w", err)
	}
	defer drafts.Close()
	if saved, err := drafts.Forms(ctx); err == nil {
		logger.Info("Draft store ready", slog.Int("saved_drafts", len(saved)))
	}
	forms := leads.NewService(drafts, leads.NewValidator(cfg.Leads.Forms), logger,
		leads.WithAutoSaveInterval(cfg.Leads.AutosaveInterval))

	broker := sse.NewBroker(cfg.SSE.Throttle)
	defer broker.Close()

	ready := func(ctx context.Context) error {
		if err := drafts.Ping(ctx); err != nil {
			return fmt.Errorf("drafts: %w", err)
		}
		if _, err := store.List(); err != nil {
			return fmt.Errorf("content: %w", err)
		}
		return nil
	}
	handler := newHandler(posts, forms, broker, cfg.Content.AssetsPath, ready)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher feeding the event stream.
	if cfg.Watch.Enabled {
		g.Go(func() error {
			if err := watch.Run(gCtx, store, logger, broker.PublishPostEvent); err != nil {
				logger.Warn("watcher: disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close the event streams first so Shutdown is not held open by them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// newHandler assembles the top-level router.
func newHandler(posts *blog.Service, forms *leads.Service, events http.Handler, assetsRoot string, ready func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.Metrics)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := ready(r.Context()); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Post images referenced from front matter.
	r.Get("/assets/{filename}", api.NewAssetHandler(assetsRoot).ServeFile)

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(posts, forms, events))

	return r
}

// RunMCP serves the MCP tools over stdio until the client disconnects.
// Logs go to stderr because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := NewLogger(cfg.App.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	posts, _, err := NewPostService(cfg, logger)
	if err != nil {
		return err
	}
	assets, err := storage.NewAssetDir(cfg.Content.AssetsPath)
	if err != nil {
		return fmt.Errorf("init assets: %w", err)
	}

	logger.Info("MCP server starting", slog.String("content_path", cfg.Content.Path))
	return mcpserver.New(posts, assets, app.version).ServeStdio()
}
