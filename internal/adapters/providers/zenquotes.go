package providers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

const (
	// ZenQuotesName is the default name of the secondary provider.
	ZenQuotesName = "zenquotes"

	// zenIDPrefix marks synthetic ids minted for zenquotes responses.
	zenIDPrefix = "zen"

	// zenQuotesSelfAuthor is the author zenquotes uses for its own notices,
	// e.g. the rate limit message served with a 200 status.
	zenQuotesSelfAuthor = "zenquotes.io"
)

// ZenQuotes fetches quotes from zenquotes.io. The API has no category filter
// and no stable ids, so the quote is tagged with the requested category and
// given a synthetic id.
type ZenQuotes struct {
	BaseAdapter

	clock Clock
	newID IDGenerator
}

// ZenQuotesOption configures a ZenQuotes provider.
type ZenQuotesOption func(*ZenQuotes)

// WithZenClock overrides the clock used for cache busting and ids.
func WithZenClock(clock Clock) ZenQuotesOption {
	return func(z *ZenQuotes) { z.clock = clock }
}

// WithZenIDGenerator overrides the synthetic id suffix generator.
func WithZenIDGenerator(gen IDGenerator) ZenQuotesOption {
	return func(z *ZenQuotes) { z.newID = gen }
}

// NewZenQuotes creates the zenquotes provider.
func NewZenQuotes(client *clients.Client, name string, logger *slog.Logger, opts ...ZenQuotesOption) *ZenQuotes {
	if name == "" {
		name = ZenQuotesName
	}

	z := &ZenQuotes{
		BaseAdapter: NewBaseAdapter(client, name, logger),
		clock:       defaultClock,
		newID:       defaultIDGenerator,
	}

	for _, opt := range opts {
		opt(z)
	}

	return z
}

// zenQuote is one element of the GET /random response array.
type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Fetch returns one random quote. The category only affects the tag.
func (z *ZenQuotes) Fetch(ctx context.Context, category domain.Category) (domain.Quote, error) {
	now := z.clock()
	path := "/random/" + strconv.FormatInt(now.UnixMilli(), 10)

	z.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := z.Get(ctx, path)
	if err != nil {
		return domain.Quote{}, err
	}

	ext, err := DecodeResponse[[]zenQuote](body)
	if err != nil {
		return domain.Quote{}, domain.NewProviderUnavailableError(z.name, "invalid payload", err)
	}

	if len(*ext) == 0 {
		return domain.Quote{}, domain.NewProviderUnavailableError(z.name, "empty response", nil)
	}

	first := (*ext)[0]
	text := strings.TrimSpace(first.Q)
	author := strings.TrimSpace(first.A)

	if text == "" || author == "" {
		return domain.Quote{}, domain.NewProviderUnavailableError(z.name, "incomplete quote in response", nil)
	}

	if strings.EqualFold(author, zenQuotesSelfAuthor) {
		return domain.Quote{}, domain.NewProviderUnavailableError(z.name, "service notice: "+text, nil)
	}

	return domain.Quote{
		ID:     syntheticID(zenIDPrefix, now, z.newID),
		Text:   text,
		Author: author,
		Tags:   []string{category.DisplayTag()},
	}, nil
}
