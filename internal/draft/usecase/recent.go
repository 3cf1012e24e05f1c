package usecase

import (
	"sync"

	"draftpilot-backend/internal/draft/domain"
)

// draftRing is a fixed-capacity, most-recent-first buffer of draft records.
// Insertion evicts the oldest record when full.
type draftRing struct {
	mu       sync.Mutex
	capacity int
	items    []domain.DraftRecord
}

func newDraftRing(capacity int) *draftRing {
	return &draftRing{
		capacity: capacity,
		items:    make([]domain.DraftRecord, 0, capacity),
	}
}

func (r *draftRing) Add(record domain.DraftRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]domain.DraftRecord{record}, r.items...)
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
}

// List returns a copy so callers never observe concurrent mutation.
func (r *draftRing) List() []domain.DraftRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.DraftRecord, len(r.items))
	copy(out, r.items)
	return out
}
