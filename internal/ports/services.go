// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrProviderUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// QuoteProvider is a single source of quotes.
// Providers are tried in priority order by the acquisition pipeline.
type QuoteProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Fetch returns one quote for the category.
	// Any failure is reported as a *domain.ProviderUnavailableError.
	Fetch(ctx context.Context, category domain.Category) (domain.Quote, error)
}

// KeyValueStore persists opaque values under string keys.
// Favorites are stored as a JSON array under a single key.
type KeyValueStore interface {
	// Get returns the stored value.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any underlying resources.
	Close() error
}

// LoadingNotifier is told when a quote acquisition begins.
type LoadingNotifier interface {
	OnLoadingStart(ctx context.Context)
}

// ViewBinding renders widget state. Implementations must not block for long:
// they are called from the session while a request is being served.
type ViewBinding interface {
	LoadingNotifier

	// OnQuoteDisplayed renders a quote and whether it is currently a favorite.
	OnQuoteDisplayed(ctx context.Context, quote domain.Quote, isFavorite bool)

	// OnFavoritesChanged renders the recent favorites and the total count.
	OnFavoritesChanged(ctx context.Context, favorites []domain.Quote, count int)
}

// Clipboard writes text to a system clipboard.
// Failures are reported as a *domain.ClipboardError.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}
