package usecase

import (
	"fmt"
	"strings"
	"time"

	"draftpilot-backend/internal/draft/domain"
)

const bodyOverlapWords = 50

// findSimilarMessage scores every history candidate against the current
// message and returns the extracted context plus the single best candidate
// strictly above the similarity floor. Ties resolve to the first candidate
// seen in iteration order.
func (u *draftUsecase) findSimilarMessage(current *domain.Message, history []*domain.Message) (string, *domain.Message) {
	now := u.now()

	var best *domain.Message
	bestScore := 0
	for _, candidate := range history {
		score := similarityScore(current, candidate, now)
		if score > bestScore && score > u.similarityFloor {
			bestScore = score
			best = candidate
		}
	}

	if best == nil {
		return "", nil
	}
	return similarMessageContext(best), best
}

// similarityScore computes the non-negative heuristic match score:
// sender match, shared subject words, body-prefix overlap, and recency.
func similarityScore(current, candidate *domain.Message, now time.Time) int {
	score := 0

	if current.Sender != "" && strings.EqualFold(current.Sender, candidate.Sender) {
		score += 30
	}

	score += 10 * sharedWords(wordSet(current.Subject, 0), wordSet(candidate.Subject, 0))

	// Body overlap only counts once it clears the threshold; below it the
	// overlap is treated as noise.
	bodyOverlap := sharedWords(wordSet(current.Body, bodyOverlapWords), wordSet(candidate.Body, bodyOverlapWords))
	if bodyOverlap > 2 {
		score += 5 * bodyOverlap
	}

	if ts := candidate.Timestamp(); !ts.IsZero() {
		ageDays := int(now.Sub(ts).Hours() / 24)
		if bonus := 20 - ageDays; bonus > 0 {
			score += bonus
		}
	}

	return score
}

// wordSet lowercases and splits text into a set of distinct words, keeping
// only the first limit words when limit > 0.
func wordSet(text string, limit int) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func sharedWords(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for w := range a {
		if _, ok := b[w]; ok {
			count++
		}
	}
	return count
}

// similarMessageContext renders the winning candidate as an evidence block.
func similarMessageContext(msg *domain.Message) string {
	body := msg.Body
	if body == "" {
		body = msg.BodyPreview
	}
	if len(body) > 2000 {
		body = body[:2000] + "..."
	}
	return fmt.Sprintf("From: %s\nSubject: %s\nBody: %s", msg.Sender, msg.Subject, body)
}
