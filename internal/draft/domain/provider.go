package domain

import "context"

// MailProvider is the mailbox collaborator the pipeline drives. The Graph
// implementation lives in pkg/graph; tests substitute fakes.
type MailProvider interface {
	// GetMessage fetches a single message by id.
	GetMessage(ctx context.Context, id string) (*Message, error)
	// GetMessagesFromSender returns up to limit messages received from the
	// address within the last days days, most recent first. Best-effort: may
	// return fewer than limit.
	GetMessagesFromSender(ctx context.Context, address string, days, limit int) ([]*Message, error)
	// GetDraftsToRecipient returns up to limit drafts addressed to the
	// recipient, most recently modified first.
	GetDraftsToRecipient(ctx context.Context, address string, limit int) ([]*Message, error)
	// CreateDraftReply saves an unsent reply draft on the original message
	// and returns the new draft's id.
	CreateDraftReply(ctx context.Context, originalID, htmlBody string) (string, error)
}
