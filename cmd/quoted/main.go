// Package main is the entry point for the quote widget HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clipboard"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/providers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/storage"
	"github.com/jsamuelsen/quote-widget/internal/adapters/view"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open favorites storage
	store, err := storage.Open(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	// 7. Build the provider chain
	chain, err := providers.NewChain(&cfg.Providers, &cfg.Client, logger)
	if err != nil {
		return fmt.Errorf("creating providers: %w", err)
	}

	for _, checker := range append(chain.Checkers, store) {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	// 8. Create the widget session (application layer)
	metrics := app.NewMetrics(prometheus.DefaultRegisterer)
	state := view.NewState()
	primary, legacy := clipboard.New(&cfg.Clipboard, nil)

	session := app.NewSession(app.SessionConfig{
		Acquirer: app.NewAcquirer(app.AcquirerConfig{
			Providers:         chain.Providers,
			Retry:             chain.Retry,
			Fallback:          chain.Fallback,
			Notifier:          state,
			RetryHistoryLimit: cfg.Acquisition.RetryHistoryLimit,
			HistoryCap:        cfg.Acquisition.HistoryCap,
			Metrics:           metrics,
			Logger:            logger,
		}),
		Favorites: app.NewFavorites(app.FavoritesConfig{
			Store:       store,
			Key:         cfg.Favorites.Key,
			RecentLimit: cfg.Favorites.RecentLimit,
			Metrics:     metrics,
			Logger:      logger,
		}),
		View:                state,
		Clipboard:           primary,
		LegacyClipboard:     legacy,
		DefaultCategory:     domain.Category(cfg.Widget.DefaultCategory),
		CategoryChangeDelay: cfg.Widget.CategoryChangeDelay,
		Metrics:             metrics,
		Logger:              logger,
	})

	go session.Start(ctx)

	// 9. Optional periodic refresh
	if cfg.Widget.RefreshSchedule != "" {
		refresher, err := app.NewRefresher(cfg.Widget.RefreshSchedule, session.RequestNewQuote, logger)
		if err != nil {
			return err
		}

		refresher.Start(ctx)
		defer refresher.Stop()
	}

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, handlers.WithGatherer(prometheus.DefaultGatherer))
	widgetHandler := handlers.NewWidgetHandler(session, state)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, widgetHandler))

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, cancel, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then cancels background work and drains the HTTP server.
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Stop the refresher and any pending category change
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
