package usecase

import (
	"log"

	"draftpilot-backend/internal/draft/domain"
)

// RetrieveCitations runs one lexical index query per term, in order, and
// accumulates up to topK citations. Earlier terms take priority: the first
// occurrence of an id wins and later duplicates are skipped. Index read
// failures only cost the affected term.
func (u *draftUsecase) RetrieveCitations(terms []string, sender string, topK int) []domain.Citation {
	seen := make(map[string]struct{})
	var results []domain.Citation

	for _, term := range terms {
		if len(results) >= topK {
			break
		}
		entries, err := u.indexRepo.SearchLexical(term, sender, topK)
		if err != nil {
			log.Printf("[Index] Search failed for term %q: %v", term, err)
			continue
		}
		for _, entry := range entries {
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}
			results = append(results, domain.Citation{
				ID:       entry.ID,
				Sender:   entry.Sender,
				Subject:  entry.Subject,
				Preview:  entry.BodyPreview,
				Received: entry.ReceivedUTC,
			})
			if len(results) >= topK {
				break
			}
		}
	}
	return results
}
