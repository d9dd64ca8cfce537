package dto

import (
	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// DefaultFavoritesLimit is used when the favorites query has no limit.
const DefaultFavoritesLimit = 5

// MaxFavoritesLimit is the largest accepted favorites limit.
const MaxFavoritesLimit = 100

// QuoteResponse is a quote as returned by the API.
type QuoteResponse struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// NewQuoteResponse converts a domain quote. Nil tags become an empty list.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}

	return QuoteResponse{ID: q.ID, Text: q.Text, Author: q.Author, Tags: tags}
}

// NewQuoteResponses converts a list of domain quotes.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// WidgetResponse is the full widget state for GET /api/v1/widget.
type WidgetResponse struct {
	Version        uint64          `json:"version"`
	Loading        bool            `json:"loading"`
	Quote          *QuoteResponse  `json:"quote"`
	IsFavorite     bool            `json:"isFavorite"`
	Category       string          `json:"category"`
	Favorites      []QuoteResponse `json:"favorites"`
	FavoritesCount int             `json:"favoritesCount"`
}

// NextQuoteResponse is returned by POST /api/v1/widget/next and category changes.
// Dropped is true when another fetch was already running.
type NextQuoteResponse struct {
	Dropped  bool           `json:"dropped"`
	Quote    *QuoteResponse `json:"quote"`
	Category string         `json:"category"`
}

// CategoryRequest is the body of PUT /api/v1/widget/category.
type CategoryRequest struct {
	Category string `json:"category" validate:"required,category"`
}

// CopyResponse is returned by POST /api/v1/widget/copy.
type CopyResponse struct {
	Copied bool   `json:"copied"`
	Text   string `json:"text"`
}

// FavoriteToggleResponse is returned by POST /api/v1/widget/favorite.
type FavoriteToggleResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
	Count      int    `json:"count"`
}

// FavoritesQuery holds the query parameters of GET /api/v1/favorites.
type FavoritesQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// GetLimit returns the limit with defaults applied.
func (q *FavoritesQuery) GetLimit() int {
	if q.Limit <= 0 {
		return DefaultFavoritesLimit
	}

	if q.Limit > MaxFavoritesLimit {
		return MaxFavoritesLimit
	}

	return q.Limit
}

// FavoritesResponse is returned by GET /api/v1/favorites.
type FavoritesResponse struct {
	Items []QuoteResponse `json:"items"`
	Count int             `json:"count"`
}
