package usecase

import (
	"context"

	"draftpilot-backend/internal/draft/domain"
	"draftpilot-backend/internal/draft/dto"
)

// DraftUsecase is the draft-generation pipeline: it consumes change
// notification batches and exposes the recent-draft feed.
type DraftUsecase interface {
	// HandleNotificationBatch runs the pipeline for each notification in the
	// batch. Per-item failures are absorbed; a syntactically valid batch
	// always yields a "processed" status.
	HandleNotificationBatch(ctx context.Context, batch dto.NotificationBatch) dto.WebhookResponse

	// ListRecentDrafts returns the generated drafts recorded for display,
	// most recent first.
	ListRecentDrafts() []domain.DraftRecord

	// RetrieveCitations queries the lexical index for each term in order and
	// returns up to topK deduplicated citations.
	RetrieveCitations(terms []string, sender string, topK int) []domain.Citation

	// SetClientState wires the subscription clientState so intake can reject
	// notifications that do not echo it.
	SetClientState(state string)
}
