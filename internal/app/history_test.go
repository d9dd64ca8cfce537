package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentHistory_Record(t *testing.T) {
	h := NewRecentHistory(3)

	assert.False(t, h.Record("a"))
	assert.False(t, h.Record("b"))
	assert.False(t, h.Record("a"))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "a", h.LastShown())
	assert.True(t, h.Contains("b"))
}

func TestRecentHistory_ClearsWhenCapExceeded(t *testing.T) {
	h := NewRecentHistory(3)

	for i := range 3 {
		assert.False(t, h.Record(fmt.Sprintf("q%d", i)))
	}

	assert.True(t, h.Record("q3"))
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, "q3", h.LastShown())
	assert.False(t, h.Contains("q0"))
}

func TestRecentHistory_NeverAboveCap(t *testing.T) {
	h := NewRecentHistory(DefaultHistoryCap)

	for i := range 500 {
		h.Record(fmt.Sprintf("q%d", i%137))
		assert.LessOrEqual(t, h.Len(), DefaultHistoryCap)

		if h.Len() > 0 {
			assert.True(t, h.Contains(h.LastShown()))
		}
	}
}

func TestNewRecentHistory_MinimumCap(t *testing.T) {
	h := NewRecentHistory(0)

	assert.Equal(t, 1, h.Cap())
	assert.False(t, h.Record("a"))
	assert.True(t, h.Record("b"))
}
