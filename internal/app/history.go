package app

import "sync"

// RecentHistory tracks the ids of quotes shown this session.
// Once more than cap ids are held the whole set is cleared.
// The last shown id survives a clear so an immediate repeat is still caught.
type RecentHistory struct {
	mu        sync.Mutex
	ids       map[string]struct{}
	lastShown string
	cap       int
}

// NewRecentHistory creates an empty history. capacity < 1 is treated as 1.
func NewRecentHistory(capacity int) *RecentHistory {
	if capacity < 1 {
		capacity = 1
	}

	return &RecentHistory{
		ids: make(map[string]struct{}, capacity+1),
		cap: capacity,
	}
}

// Record marks id as shown. It reports whether the set was cleared.
func (h *RecentHistory) Record(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastShown = id
	h.ids[id] = struct{}{}

	if len(h.ids) > h.cap {
		clear(h.ids)
		return true
	}

	return false
}

// LastShown returns the most recently recorded id.
func (h *RecentHistory) LastShown() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lastShown
}

// Contains reports whether id is in the current set.
func (h *RecentHistory) Contains(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.ids[id]

	return ok
}

// Len returns the number of ids in the current set.
func (h *RecentHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.ids)
}

// Cap returns the configured capacity.
func (h *RecentHistory) Cap() int { return h.cap }
