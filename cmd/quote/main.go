// Package main is the quote widget command line client.
//
// It shows one quote card and exits:
//
//	quote -category wisdom -favorite -copy -favorites
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clipboard"
	"github.com/jsamuelsen/quote-widget/internal/adapters/providers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/storage"
	"github.com/jsamuelsen/quote-widget/internal/adapters/view"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

type options struct {
	category  string
	favorite  bool
	copy      bool
	favorites bool
	verbose   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.category, "category", "", "quote category: all, inspirational, life, success, wisdom")
	fs.BoolVar(&opts.favorite, "favorite", false, "save or remove the shown quote")
	fs.BoolVar(&opts.copy, "copy", false, "copy the shown quote to the clipboard")
	fs.BoolVar(&opts.favorites, "favorites", false, "list recent favorites")
	fs.BoolVar(&opts.verbose, "v", false, "log to stderr at the configured level")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	category := domain.Category(cfg.Widget.DefaultCategory)
	if opts.category != "" {
		category, err = domain.ParseCategory(opts.category)
		if err != nil {
			return err
		}
	}

	// Rendered output owns stdout; logs stay quiet unless asked for.
	level := "error"
	if opts.verbose {
		level = cfg.Log.Level
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	}, stderr)
	logging.SetDefault(logger)

	store, err := storage.Open(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	chain, err := providers.NewChain(&cfg.Providers, &cfg.Client, logger)
	if err != nil {
		return fmt.Errorf("creating providers: %w", err)
	}

	terminal := view.NewTerminal(stdout, view.WithFavorites(opts.favorites))
	primary, legacy := clipboard.New(&cfg.Clipboard, stderr)

	session := app.NewSession(app.SessionConfig{
		Acquirer: app.NewAcquirer(app.AcquirerConfig{
			Providers:         chain.Providers,
			Retry:             chain.Retry,
			Fallback:          chain.Fallback,
			RetryHistoryLimit: cfg.Acquisition.RetryHistoryLimit,
			HistoryCap:        cfg.Acquisition.HistoryCap,
			Logger:            logger,
		}),
		Favorites: app.NewFavorites(app.FavoritesConfig{
			Store:       store,
			Key:         cfg.Favorites.Key,
			RecentLimit: cfg.Favorites.RecentLimit,
			Logger:      logger,
		}),
		View:            terminal,
		Clipboard:       primary,
		LegacyClipboard: legacy,
		DefaultCategory: category,
		Logger:          logger,
	})

	session.Start(ctx)

	if opts.favorite {
		if _, err := session.RequestToggleFavorite(ctx); err != nil {
			return err
		}
	}

	if opts.copy {
		text, err := session.RequestCopy(ctx)
		if err != nil {
			if !domain.IsClipboardUnavailable(err) {
				return err
			}

			fmt.Fprintf(stderr, "буфер обмена недоступен, скопируйте вручную:\n%s\n", text)

			return nil
		}

		fmt.Fprintln(stderr, "скопировано в буфер обмена")
	}

	return nil
}
