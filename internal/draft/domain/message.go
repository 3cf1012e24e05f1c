package domain

import "time"

// Message is a read-only snapshot of a mailbox message as fetched from the
// provider. The pipeline never mutates it.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"sender_name,omitempty"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	BodyPreview    string    `json:"body_preview"`
	ReceivedAt     time.Time `json:"received_at"`
	ModifiedAt     time.Time `json:"modified_at"`
	Categories     []string  `json:"categories,omitempty"`
	ToRecipients   []string  `json:"to_recipients,omitempty"`
	IsDraft        bool      `json:"is_draft"`
}

// PreviewText prefers the short preview the provider computed, falling back
// to the full body for drafts where the preview can be absent.
func (m *Message) PreviewText() string {
	if m.BodyPreview != "" {
		return m.BodyPreview
	}
	return m.Body
}

// Timestamp returns the best available event time for recency scoring.
// A zero return means the provider gave us nothing parseable.
func (m *Message) Timestamp() time.Time {
	if !m.ReceivedAt.IsZero() {
		return m.ReceivedAt
	}
	return m.ModifiedAt
}

// Citation is a retrieval result referencing a prior indexed message,
// used as grounding evidence. Derived from IndexEntry, never persisted.
type Citation struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Preview  string `json:"preview"`
	Received string `json:"received"`
}

// DraftRecord is the operator-facing record of one generated draft.
type DraftRecord struct {
	MessageID      string     `json:"message_id"`
	Sender         string     `json:"sender"`
	Subject        string     `json:"subject"`
	DraftPreview   string     `json:"draft_preview"`
	SimilarSender  string     `json:"similar_sender,omitempty"`
	SimilarSubject string     `json:"similar_subject,omitempty"`
	Citations      []Citation `json:"citations,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
