package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// Favorites defaults.
const (
	DefaultFavoritesKey = "favoriteQuotes"
	DefaultRecentLimit  = 5
)

// Favorites is the user's saved quotes, unique by id, in insertion order.
// Every mutation is written through to the key-value store. Storage
// failures are logged and never roll back the in-memory state.
type Favorites struct {
	saveMu      sync.Mutex // orders writes to the store
	mu          sync.RWMutex
	items       []domain.Quote
	store       ports.KeyValueStore
	key         string
	recentLimit int
	metrics     *Metrics
	logger      *slog.Logger
}

// FavoritesConfig contains the dependencies for Favorites.
type FavoritesConfig struct {
	Store       ports.KeyValueStore
	Key         string
	RecentLimit int
	Metrics     *Metrics
	Logger      *slog.Logger
}

// NewFavorites creates an empty collection. Call Load to read stored favorites.
// It panics without a store.
func NewFavorites(cfg FavoritesConfig) *Favorites {
	if cfg.Store == nil {
		panic("app: Favorites requires a key-value store")
	}

	if cfg.Key == "" {
		cfg.Key = DefaultFavoritesKey
	}

	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}

	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Favorites{
		items:       []domain.Quote{},
		store:       cfg.Store,
		key:         cfg.Key,
		recentLimit: cfg.RecentLimit,
		metrics:     cfg.Metrics,
		logger:      logger.With(slog.String("component", "app.Favorites")),
	}
}

// Load replaces the collection with the stored one. A missing key, a storage
// failure or invalid JSON all yield an empty collection. Entries without an
// id and repeated ids are dropped.
func (f *Favorites) Load(ctx context.Context) []domain.Quote {
	logger := logging.FromContextOr(ctx, f.logger)

	loaded, err := f.read(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			logger.DebugContext(ctx, "no stored favorites", slog.String("key", f.key))
		} else {
			f.metrics.PersistenceFailures.WithLabelValues("load").Inc()
			logger.WarnContext(ctx, "favorites unavailable, starting empty",
				slog.String("key", f.key),
				slog.Any("error", err),
			)
		}

		loaded = nil
	}

	items := make([]domain.Quote, 0, len(loaded))
	seen := make(map[string]struct{}, len(loaded))

	for _, q := range loaded {
		if q.ID == "" {
			continue
		}

		if _, dup := seen[q.ID]; dup {
			continue
		}

		seen[q.ID] = struct{}{}
		items = append(items, q.Clone())
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()

	logger.DebugContext(ctx, "favorites loaded", slog.Int("count", len(items)))

	return f.All()
}

// IsFavorite reports whether id is saved.
func (f *Favorites) IsFavorite(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.indexOf(id) >= 0
}

// Get returns the saved quote with id.
func (f *Favorites) Get(id string) (domain.Quote, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	i := f.indexOf(id)
	if i < 0 {
		return domain.Quote{}, false
	}

	return f.items[i].Clone(), true
}

// Toggle removes quote if saved, otherwise appends a copy, then persists.
// It returns whether the quote is saved afterwards. A quote without an id
// is never saved.
func (f *Favorites) Toggle(ctx context.Context, quote domain.Quote) bool {
	if quote.ID == "" {
		return false
	}

	f.saveMu.Lock()
	defer f.saveMu.Unlock()

	f.mu.Lock()

	saved := true
	if i := f.indexOf(quote.ID); i >= 0 {
		f.items = slices.Delete(f.items, i, i+1)
		saved = false
	} else {
		f.items = append(f.items, quote.Clone())
	}

	snapshot := f.cloneItems()
	f.mu.Unlock()

	if err := f.write(ctx, snapshot); err != nil {
		f.metrics.PersistenceFailures.WithLabelValues("save").Inc()
		logging.FromContextOr(ctx, f.logger).WarnContext(ctx, "saving favorites failed",
			slog.String("key", f.key),
			slog.Any("error", err),
		)
	}

	return saved
}

// Recent returns up to limit favorites, most recently added first.
// limit <= 0 uses the configured default.
func (f *Favorites) Recent(limit int) []domain.Quote {
	if limit <= 0 {
		limit = f.recentLimit
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	n := min(limit, len(f.items))
	out := make([]domain.Quote, 0, n)

	for i := len(f.items) - 1; i >= len(f.items)-n; i-- {
		out = append(out, f.items[i].Clone())
	}

	return out
}

// All returns every favorite in insertion order.
func (f *Favorites) All() []domain.Quote {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.cloneItems()
}

// Count returns the number of favorites.
func (f *Favorites) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.items)
}

// indexOf must be called with the lock held.
func (f *Favorites) indexOf(id string) int {
	return slices.IndexFunc(f.items, func(q domain.Quote) bool { return q.ID == id })
}

// cloneItems must be called with the lock held.
func (f *Favorites) cloneItems() []domain.Quote {
	out := make([]domain.Quote, len(f.items))
	for i, q := range f.items {
		out[i] = q.Clone()
	}

	return out
}

func (f *Favorites) read(ctx context.Context) ([]domain.Quote, error) {
	data, err := f.store.Get(ctx, f.key)
	if err != nil {
		return nil, err
	}

	var quotes []domain.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, domain.NewPersistenceError("decode", f.key, err)
	}

	return quotes, nil
}

func (f *Favorites) write(ctx context.Context, quotes []domain.Quote) error {
	data, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	return f.store.Set(ctx, f.key, data)
}
