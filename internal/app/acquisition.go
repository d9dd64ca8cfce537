package app

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

var tracer = otel.Tracer("github.com/jsamuelsen/quote-widget/internal/app")

// Acquisition defaults.
const (
	DefaultRetryHistoryLimit = 10
	DefaultHistoryCap        = 50

	// RetryDisabled as a RetryHistoryLimit turns the repeat retry off.
	RetryDisabled = -1
)

// Acquirer fetches the next quote from an ordered provider chain.
//
// At most one acquisition runs at a time; overlapping calls are dropped.
// When a quote repeats the last one shown, the retry provider is asked once
// more while the history is still small.
type Acquirer struct {
	providers         []ports.QuoteProvider
	retry             ports.QuoteProvider
	fallback          ports.QuoteProvider
	notifier          ports.LoadingNotifier
	history           *RecentHistory
	retryHistoryLimit int
	inFlight          atomic.Bool
	metrics           *Metrics
	logger            *slog.Logger
}

// AcquirerConfig contains the dependencies for an Acquirer.
type AcquirerConfig struct {
	// Providers are tried in order; first success wins.
	Providers []ports.QuoteProvider

	// Retry is asked again on a repeated quote. Optional.
	Retry ports.QuoteProvider

	// Fallback must never fail. It is used when every provider fails.
	Fallback ports.QuoteProvider

	// Notifier is told when an acquisition starts. Optional.
	Notifier ports.LoadingNotifier

	// RetryHistoryLimit is the history size below which a repeated quote is
	// fetched once more. Zero means DefaultRetryHistoryLimit; any negative
	// value disables the retry.
	RetryHistoryLimit int
	HistoryCap        int
	Metrics           *Metrics
	Logger            *slog.Logger
}

// NewAcquirer creates an Acquirer. It panics without a fallback provider.
func NewAcquirer(cfg AcquirerConfig) *Acquirer {
	if cfg.Fallback == nil {
		panic("app: Acquirer requires a fallback provider")
	}

	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}

	switch {
	case cfg.RetryHistoryLimit == 0:
		cfg.RetryHistoryLimit = DefaultRetryHistoryLimit
	case cfg.RetryHistoryLimit < 0:
		cfg.RetryHistoryLimit = 0
	}

	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Acquirer{
		providers:         cfg.Providers,
		retry:             cfg.Retry,
		fallback:          cfg.Fallback,
		notifier:          cfg.Notifier,
		history:           NewRecentHistory(cfg.HistoryCap),
		retryHistoryLimit: cfg.RetryHistoryLimit,
		metrics:           cfg.Metrics,
		logger:            logger.With(slog.String("component", "app.Acquirer")),
	}
}

// FetchNext returns the next quote for category. It reports false without
// fetching when another acquisition is already in flight.
func (a *Acquirer) FetchNext(ctx context.Context, category domain.Category) (domain.Quote, bool) {
	logger := a.loggerFrom(ctx)

	if !a.inFlight.CompareAndSwap(false, true) {
		a.metrics.DroppedRequests.Inc()
		logger.DebugContext(ctx, "acquisition in flight, request dropped",
			slog.String("category", category.String()),
		)

		return domain.Quote{}, false
	}
	defer a.inFlight.Store(false)

	ctx, span := tracer.Start(ctx, "Acquirer.FetchNext",
		trace.WithAttributes(attribute.String("quote.category", category.String())))
	defer span.End()

	if a.notifier != nil {
		a.notifier.OnLoadingStart(ctx)
	}

	quote, source := a.fetchFirst(ctx, category)

	if last := a.history.LastShown(); quote.ID == last && a.history.Len() < a.retryHistoryLimit && a.retry != nil {
		a.metrics.RepeatRetries.Inc()
		logger.DebugContext(ctx, "quote repeated, retrying once",
			slog.String("quote_id", quote.ID),
			slog.String("provider", a.retry.Name()),
		)

		if retried, ok := a.try(ctx, a.retry, category); ok && retried.ID != last {
			quote, source = retried, a.retry.Name()
		}
	}

	if a.history.Record(quote.ID) {
		a.metrics.HistoryResets.Inc()
		logger.DebugContext(ctx, "recent history cleared", slog.Int("cap", a.history.Cap()))
	}

	span.SetAttributes(
		attribute.String("quote.id", quote.ID),
		attribute.String("quote.provider", source),
	)

	logger.InfoContext(ctx, "quote acquired",
		slog.String("quote_id", quote.ID),
		slog.String("provider", source),
		slog.String("category", category.String()),
	)

	return quote, true
}

// InFlight reports whether an acquisition is running.
func (a *Acquirer) InFlight() bool {
	return a.inFlight.Load()
}

// History exposes the recent history for inspection.
func (a *Acquirer) History() *RecentHistory {
	return a.history
}

func (a *Acquirer) fetchFirst(ctx context.Context, category domain.Category) (domain.Quote, string) {
	for _, p := range a.providers {
		if quote, ok := a.try(ctx, p, category); ok {
			return quote, p.Name()
		}
	}

	quote, _ := a.try(ctx, a.fallback, category)

	return quote, a.fallback.Name()
}

func (a *Acquirer) try(ctx context.Context, p ports.QuoteProvider, category domain.Category) (domain.Quote, bool) {
	quote, err := p.Fetch(ctx, category)
	if err == nil && !quote.Valid() {
		err = domain.NewProviderUnavailableError(p.Name(), "incomplete quote", nil)
	}

	if err != nil {
		a.metrics.providerFetch(p.Name(), "failure")
		a.loggerFrom(ctx).WarnContext(ctx, "provider failed",
			slog.String("provider", p.Name()),
			slog.Any("error", err),
		)

		return domain.Quote{}, false
	}

	a.metrics.providerFetch(p.Name(), "success")

	return quote.Clone(), true
}

func (a *Acquirer) loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger.With(slog.String("component", "app.Acquirer"))
	}

	return a.logger
}
