package providers

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// QuotableName is the default name of the primary provider.
const QuotableName = "quotable"

// Quotable fetches quotes from the quotable.io API. Categories map to its tags.
type Quotable struct {
	BaseAdapter
}

// NewQuotable creates the quotable provider.
func NewQuotable(client *clients.Client, name string, logger *slog.Logger) *Quotable {
	if name == "" {
		name = QuotableName
	}

	return &Quotable{BaseAdapter: NewBaseAdapter(client, name, logger)}
}

// quotableResponse is the wire format of GET /random.
type quotableResponse struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// Fetch returns one random quote, filtered by tag unless the category is "all".
func (q *Quotable) Fetch(ctx context.Context, category domain.Category) (domain.Quote, error) {
	path := "/random"
	if category != domain.CategoryAll && category != "" {
		path += "?tags=" + url.QueryEscape(string(category))
	}

	q.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := q.Get(ctx, path)
	if err != nil {
		return domain.Quote{}, err
	}

	ext, err := DecodeResponse[quotableResponse](body)
	if err != nil {
		return domain.Quote{}, domain.NewProviderUnavailableError(q.name, "invalid payload", err)
	}

	quote, err := q.translate(ext)
	if err != nil {
		return domain.Quote{}, err
	}

	q.logger.Log(ctx, logging.LevelTrace, "translated response",
		slog.String("quote_id", quote.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// translate validates the DTO and converts it to a domain quote.
func (q *Quotable) translate(ext *quotableResponse) (domain.Quote, error) {
	quote := domain.Quote{
		ID:     strings.TrimSpace(ext.ID),
		Text:   strings.TrimSpace(ext.Content),
		Author: strings.TrimSpace(ext.Author),
		Tags:   ext.Tags,
	}

	if !quote.Valid() {
		return domain.Quote{}, domain.NewProviderUnavailableError(q.name, "incomplete quote in response", nil)
	}

	if len(quote.Tags) == 0 {
		quote.Tags = []string{domain.DefaultTag}
	}

	return quote, nil
}
