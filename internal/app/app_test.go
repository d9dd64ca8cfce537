package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/mocks"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quote(id string) domain.Quote {
	return domain.Quote{ID: id, Text: "text " + id, Author: "author " + id, Tags: []string{"wisdom"}}
}

// newProvider returns a provider mock whose Name may be called any number of times.
func newProvider(t *testing.T, name string) *mocks.MockQuoteProvider {
	t.Helper()

	p := mocks.NewMockQuoteProvider(t)
	p.EXPECT().Name().Return(name).Maybe()

	return p
}

// staticProvider always returns the same quote.
type staticProvider struct {
	q domain.Quote
}

func (s staticProvider) Name() string { return "static" }

func (s staticProvider) Fetch(context.Context, domain.Category) (domain.Quote, error) {
	return s.q.Clone(), nil
}

func unavailable(name string) error {
	return domain.NewProviderUnavailableError(name, "HTTP 503", nil)
}
