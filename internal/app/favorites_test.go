package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jsamuelsen/quote-widget/internal/adapters/storage"
	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/mocks"
)

const favoritesKey = "favoriteQuotes"

func newFavorites(t *testing.T, store *mocks.MockKeyValueStore, metrics *Metrics) *Favorites {
	t.Helper()

	return NewFavorites(FavoritesConfig{
		Store:   store,
		Key:     favoritesKey,
		Metrics: metrics,
		Logger:  discardLogger(),
	})
}

func encode(t *testing.T, quotes ...domain.Quote) []byte {
	t.Helper()

	data, err := json.Marshal(quotes)
	require.NoError(t, err)

	return data
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}

	return out
}

func ids(quotes []domain.Quote) []string {
	out := make([]string, len(quotes))
	for i, q := range quotes {
		out[i] = q.ID
	}

	return out
}

func TestNewFavorites_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewFavorites(FavoritesConfig{})
	})
}

func TestFavorites_Load(t *testing.T) {
	tests := []struct {
		name        string
		stored      []byte
		storeErr    error
		expectedIDs []string
		failures    float64
	}{
		{
			name:        "missing key",
			storeErr:    domain.NewNotFoundError("key", favoritesKey),
			expectedIDs: []string{},
		},
		{
			name:        "storage failure",
			storeErr:    domain.NewPersistenceError("load", favoritesKey, errors.New("disk")),
			expectedIDs: []string{},
			failures:    1,
		},
		{
			name:        "corrupted value",
			stored:      []byte(`{"id": not-json`),
			expectedIDs: []string{},
			failures:    1,
		},
		{
			name:        "wrong shape",
			stored:      []byte(`{"id":"q1"}`),
			expectedIDs: []string{},
			failures:    1,
		},
		{
			name:        "null",
			stored:      []byte(`null`),
			expectedIDs: []string{},
		},
		{
			name:        "valid",
			stored:      encode(t, quote("q1"), quote("q2")),
			expectedIDs: []string{"q1", "q2"},
		},
		{
			name:        "drops duplicates and empty ids",
			stored:      encode(t, quote("q1"), domain.Quote{Text: "orphan"}, quote("q1"), quote("q2")),
			expectedIDs: []string{"q1", "q2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockKeyValueStore(ctrl)
			store.EXPECT().Get(gomock.Any(), favoritesKey).Return(tt.stored, tt.storeErr)

			metrics := NewMetrics(prometheus.NewRegistry())
			f := newFavorites(t, store, metrics)

			loaded := f.Load(context.Background())

			assert.Equal(t, tt.expectedIDs, ids(loaded))
			assert.Equal(t, len(tt.expectedIDs), f.Count())
			assert.InDelta(t, tt.failures, testutil.ToFloat64(metrics.PersistenceFailures.WithLabelValues("load")), 0)
		})
	}
}

func TestFavorites_ToggleScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)

	x := domain.Quote{ID: "x", Text: "t", Author: "a", Tags: []string{"life"}}

	gomock.InOrder(
		store.EXPECT().Set(gomock.Any(), favoritesKey, encode(t, x)).Return(nil),
		store.EXPECT().Set(gomock.Any(), favoritesKey, []byte(`[]`)).Return(nil),
	)

	f := newFavorites(t, store, nil)

	assert.True(t, f.Toggle(context.Background(), x))
	assert.Equal(t, []string{"x"}, ids(f.All()))
	assert.True(t, f.IsFavorite("x"))

	assert.False(t, f.Toggle(context.Background(), x))
	assert.Empty(t, f.All())
	assert.False(t, f.IsFavorite("x"))
}

func TestFavorites_ToggleIsItsOwnInverse(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)
	store.EXPECT().Set(gomock.Any(), favoritesKey, gomock.Any()).Return(nil).AnyTimes()

	f := newFavorites(t, store, nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		f.Toggle(ctx, quote(id))
	}

	for _, id := range []string{"b", "e", "a", "d"} {
		wasFavorite := f.IsFavorite(id)
		before := ids(f.All())

		f.Toggle(ctx, quote(id))
		f.Toggle(ctx, quote(id))

		// A restored favorite moves to the newest position; the others keep their order.
		assert.Equal(t, wasFavorite, f.IsFavorite(id), id)
		assert.Equal(t, without(before, id), without(ids(f.All()), id), id)
		assert.Len(t, f.All(), len(before), id)
	}
}

func TestFavorites_TogglePersistenceFailureKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)
	store.EXPECT().Set(gomock.Any(), favoritesKey, gomock.Any()).
		Return(domain.NewPersistenceError("save", favoritesKey, errors.New("read-only")))

	metrics := NewMetrics(prometheus.NewRegistry())
	f := newFavorites(t, store, metrics)

	assert.True(t, f.Toggle(context.Background(), quote("q1")))
	assert.True(t, f.IsFavorite("q1"))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PersistenceFailures.WithLabelValues("save")), 0)
}

func TestFavorites_ToggleIgnoresEmptyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)

	f := newFavorites(t, store, nil)

	assert.False(t, f.Toggle(context.Background(), domain.Quote{Text: "no id"}))
	assert.Equal(t, 0, f.Count())
}

func TestFavorites_StoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)
	store.EXPECT().Set(gomock.Any(), favoritesKey, gomock.Any()).Return(nil)

	f := newFavorites(t, store, nil)

	q := quote("q1")
	f.Toggle(context.Background(), q)
	q.Tags[0] = "changed"

	saved, ok := f.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "wisdom", saved.Tags[0])

	saved.Tags[0] = "changed again"
	again, _ := f.Get("q1")
	assert.Equal(t, "wisdom", again.Tags[0])

	_, ok = f.Get("missing")
	assert.False(t, ok)
}

func TestFavorites_Recent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockKeyValueStore(ctrl)
	store.EXPECT().Get(gomock.Any(), favoritesKey).
		Return(encode(t, quote("1"), quote("2"), quote("3"), quote("4"), quote("5"), quote("6"), quote("7")), nil)

	f := newFavorites(t, store, nil)
	f.Load(context.Background())

	assert.Equal(t, []string{"7", "6", "5", "4", "3"}, ids(f.Recent(0)))
	assert.Equal(t, []string{"7", "6"}, ids(f.Recent(2)))
	assert.Equal(t, []string{"7", "6", "5", "4", "3", "2", "1"}, ids(f.Recent(100)))
	assert.Equal(t, 7, f.Count())
}

func TestFavorites_RoundTripThroughStore(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first := NewFavorites(FavoritesConfig{Store: store, Logger: discardLogger()})
	first.Toggle(ctx, quote("q1"))
	first.Toggle(ctx, quote("q2"))

	second := NewFavorites(FavoritesConfig{Store: store, Logger: discardLogger()})
	loaded := second.Load(ctx)

	assert.Equal(t, []string{"q1", "q2"}, ids(loaded))
	assert.Equal(t, quote("q2"), loaded[1])

	raw, err := store.Get(ctx, DefaultFavoritesKey)
	require.NoError(t, err)
	assert.JSONEq(t, string(encode(t, quote("q1"), quote("q2"))), string(raw))
}
