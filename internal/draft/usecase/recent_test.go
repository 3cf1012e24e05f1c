package usecase

import (
	"fmt"
	"testing"

	"draftpilot-backend/internal/draft/domain"
)

func TestDraftRingMostRecentFirst(t *testing.T) {
	ring := newDraftRing(5)
	ring.Add(domain.DraftRecord{MessageID: "a"})
	ring.Add(domain.DraftRecord{MessageID: "b"})
	ring.Add(domain.DraftRecord{MessageID: "c"})

	got := ring.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].MessageID != "c" || got[2].MessageID != "a" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestDraftRingEvictsOldest(t *testing.T) {
	ring := newDraftRing(50)
	for i := 0; i < 55; i++ {
		ring.Add(domain.DraftRecord{MessageID: fmt.Sprintf("m-%d", i)})
	}

	got := ring.List()
	if len(got) != 50 {
		t.Fatalf("expected capacity 50, got %d", len(got))
	}
	if got[0].MessageID != "m-54" {
		t.Fatalf("newest record first, got %s", got[0].MessageID)
	}
	if got[49].MessageID != "m-5" {
		t.Fatalf("oldest five must be evicted, got %s", got[49].MessageID)
	}
}

func TestDraftRingListReturnsCopy(t *testing.T) {
	ring := newDraftRing(5)
	ring.Add(domain.DraftRecord{MessageID: "a"})

	got := ring.List()
	got[0].MessageID = "mutated"

	if fresh := ring.List(); fresh[0].MessageID != "a" {
		t.Fatalf("ring contents mutated through a returned slice: %s", fresh[0].MessageID)
	}
}
