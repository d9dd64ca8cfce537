package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// DefaultCategoryChangeDelay is the pause between a category change and the fetch.
const DefaultCategoryChangeDelay = 150 * time.Millisecond

// Session holds one widget's state and handles its user events.
// Methods are safe for concurrent use. The state lock is never held while
// calling providers, storage or the view.
type Session struct {
	mu       sync.Mutex
	current  domain.Quote
	category domain.Category

	acquirer  *Acquirer
	favorites *Favorites
	view      ports.ViewBinding
	clipboard ports.Clipboard
	legacy    ports.Clipboard
	delay     time.Duration
	metrics   *Metrics
	logger    *slog.Logger
}

// SessionConfig contains the dependencies for a Session.
type SessionConfig struct {
	Acquirer  *Acquirer
	Favorites *Favorites
	View      ports.ViewBinding

	// Clipboard is tried first; LegacyClipboard is tried when it fails.
	// Either may be nil.
	Clipboard       ports.Clipboard
	LegacyClipboard ports.Clipboard

	DefaultCategory     domain.Category
	CategoryChangeDelay time.Duration
	Metrics             *Metrics
	Logger              *slog.Logger
}

// NewSession creates a Session. It panics without an acquirer, favorites or view.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Acquirer == nil || cfg.Favorites == nil || cfg.View == nil {
		panic("app: Session requires an acquirer, favorites and a view")
	}

	if !cfg.DefaultCategory.Valid() {
		cfg.DefaultCategory = domain.CategoryAll
	}

	if cfg.CategoryChangeDelay < 0 {
		cfg.CategoryChangeDelay = DefaultCategoryChangeDelay
	}

	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		category:  cfg.DefaultCategory,
		acquirer:  cfg.Acquirer,
		favorites: cfg.Favorites,
		view:      cfg.View,
		clipboard: cfg.Clipboard,
		legacy:    cfg.LegacyClipboard,
		delay:     cfg.CategoryChangeDelay,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "app.Session")),
	}
}

// Start loads favorites, renders them and displays the first quote.
func (s *Session) Start(ctx context.Context) bool {
	s.favorites.Load(ctx)
	s.emitFavorites(ctx)

	return s.RequestNewQuote(ctx)
}

// RequestNewQuote fetches and displays a quote for the current category.
// It reports false when the request was dropped.
func (s *Session) RequestNewQuote(ctx context.Context) bool {
	quote, ok := s.acquirer.FetchNext(ctx, s.Category())
	if !ok {
		return false
	}

	s.display(ctx, quote)

	return true
}

// RequestCategoryChange switches category and, after the configured delay,
// fetches a quote for it. Selecting the current category does nothing.
// It reports whether a new quote was displayed.
func (s *Session) RequestCategoryChange(ctx context.Context, category domain.Category) bool {
	logger := logging.FromContextOr(ctx, s.logger)

	if !category.Valid() {
		logger.WarnContext(ctx, "ignoring unknown category", slog.String("category", category.String()))
		return false
	}

	s.mu.Lock()
	if s.category == category {
		s.mu.Unlock()
		return false
	}

	previous := s.category
	s.category = category
	s.mu.Unlock()

	logger.InfoContext(ctx, "category changed",
		slog.String("from", previous.String()),
		slog.String("to", category.String()),
	)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}

	return s.RequestNewQuote(ctx)
}

// RequestCopy copies the current quote as `"text" - author`.
// The returned text is set even when both clipboards fail.
func (s *Session) RequestCopy(ctx context.Context) (string, error) {
	quote, ok := s.Current()
	if !ok {
		return "", domain.NewNotFoundError("current quote", "")
	}

	text := quote.ClipboardText()
	logger := logging.FromContextOr(ctx, s.logger)

	var errs []error

	for _, c := range []ports.Clipboard{s.clipboard, s.legacy} {
		if c == nil {
			continue
		}

		err := c.WriteText(ctx, text)
		if err == nil {
			logger.DebugContext(ctx, "quote copied", slog.String("quote_id", quote.ID))
			return text, nil
		}

		s.metrics.ClipboardFailures.WithLabelValues(clipboardMechanism(err)).Inc()
		logger.WarnContext(ctx, "clipboard unavailable", slog.Any("error", err))

		errs = append(errs, err)
	}

	if len(errs) == 0 {
		errs = append(errs, domain.NewClipboardError("none", errors.New("no clipboard configured")))
	}

	return text, fmt.Errorf("copying quote: %w", errors.Join(errs...))
}

// RequestToggleFavorite saves or removes the current quote.
// It returns whether the quote is saved afterwards.
func (s *Session) RequestToggleFavorite(ctx context.Context) (bool, error) {
	quote, ok := s.Current()
	if !ok {
		return false, domain.NewNotFoundError("current quote", "")
	}

	saved := s.favorites.Toggle(ctx, quote)

	s.view.OnQuoteDisplayed(ctx, quote, saved)
	s.emitFavorites(ctx)

	return saved, nil
}

// ShowFavorite displays a saved quote as the current one.
func (s *Session) ShowFavorite(ctx context.Context, id string) error {
	quote, ok := s.favorites.Get(id)
	if !ok {
		return domain.NewNotFoundError("favorite", id)
	}

	s.display(ctx, quote)

	return nil
}

// RecentFavorites returns up to limit favorites, newest first, and the total count.
func (s *Session) RecentFavorites(limit int) ([]domain.Quote, int) {
	return s.favorites.Recent(limit), s.favorites.Count()
}

// Current returns the displayed quote, if any.
func (s *Session) Current() (domain.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.IsZero() {
		return domain.Quote{}, false
	}

	return s.current.Clone(), true
}

// Category returns the selected category.
func (s *Session) Category() domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.category
}

// Loading reports whether a fetch is in flight.
func (s *Session) Loading() bool {
	return s.acquirer.InFlight()
}

func (s *Session) display(ctx context.Context, quote domain.Quote) {
	s.mu.Lock()
	s.current = quote.Clone()
	s.mu.Unlock()

	s.view.OnQuoteDisplayed(ctx, quote, s.favorites.IsFavorite(quote.ID))
}

func (s *Session) emitFavorites(ctx context.Context) {
	recent, count := s.RecentFavorites(0)
	s.view.OnFavoritesChanged(ctx, recent, count)
}

func clipboardMechanism(err error) string {
	var clipErr *domain.ClipboardError
	if errors.As(err, &clipErr) {
		return clipErr.Mechanism
	}

	return "unknown"
}
