package repository

import (
	"draftpilot-backend/internal/draft/domain"
)

// MessageIndexRepository is the durable lexical index over seen messages.
type MessageIndexRepository interface {
	// UpsertMessages projects the messages into the index, replacing any
	// existing rows with the same id.
	UpsertMessages(messages []*domain.Message) error
	// SearchLexical returns entries whose subject or preview contains the
	// term (case-insensitive), most recent first, optionally restricted to
	// one sender address.
	SearchLexical(term, sender string, limit int) ([]domain.IndexEntry, error)
}
