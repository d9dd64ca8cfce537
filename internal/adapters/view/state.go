// Package view contains ports.ViewBinding implementations.
//
// State keeps the latest rendered state in memory for the HTTP API.
// Terminal draws a quote card for the command line.
package view

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// Snapshot is everything a client needs to draw the widget.
type Snapshot struct {
	Version        uint64          `json:"version"`
	Loading        bool            `json:"loading"`
	Quote          *domain.Quote   `json:"quote"`
	IsFavorite     bool            `json:"isFavorite"`
	Category       domain.Category `json:"category"`
	Favorites      []domain.Quote  `json:"favorites"`
	FavoritesCount int             `json:"favoritesCount"`
}

// State records view events into a Snapshot. Every event bumps Version so
// polling clients can tell when to redraw.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState creates an empty State.
func NewState() *State {
	return &State{snap: Snapshot{Favorites: []domain.Quote{}}}
}

// OnLoadingStart implements ports.ViewBinding.
func (s *State) OnLoadingStart(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Loading = true
	s.snap.Version++
}

// OnQuoteDisplayed implements ports.ViewBinding.
func (s *State) OnQuoteDisplayed(_ context.Context, quote domain.Quote, isFavorite bool) {
	q := quote.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Loading = false
	s.snap.Quote = &q
	s.snap.IsFavorite = isFavorite
	s.snap.Version++
}

// OnFavoritesChanged implements ports.ViewBinding.
func (s *State) OnFavoritesChanged(_ context.Context, favorites []domain.Quote, count int) {
	list := make([]domain.Quote, len(favorites))
	for i, q := range favorites {
		list[i] = q.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Favorites = list
	s.snap.FavoritesCount = count
	s.snap.Version++
}

// Snapshot returns a copy of the current state with the given category.
// The category lives in the session, so the caller supplies it.
func (s *State) Snapshot(category domain.Category) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Category = category

	if s.snap.Quote != nil {
		q := s.snap.Quote.Clone()
		out.Quote = &q
	}

	out.Favorites = make([]domain.Quote, len(s.snap.Favorites))
	for i, q := range s.snap.Favorites {
		out.Favorites[i] = q.Clone()
	}

	return out
}
