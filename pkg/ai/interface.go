package ai

import (
	"context"

	"draftpilot-backend/internal/draft/domain"
)

// ReplyService is the interface for AI reply and clarification generation.
// Implement this interface to add new providers (Gemini, Ollama, OpenAI, etc.)
type ReplyService interface {
	// GenerateReply writes a grounded reply to the message. similarContext and
	// historyContext are optional evidence blocks; empty strings mean absent.
	GenerateReply(ctx context.Context, msg *domain.Message, similarContext, historyContext string) (string, error)
	// GenerateClarification writes a single message asking for all missing
	// blocking details at once, grounded only in the current message.
	GenerateClarification(ctx context.Context, msg *domain.Message, missingSlots []string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// PlaceholderReply is the fixed acknowledgment used when every provider
// fails. Generation failures degrade to this text; they never surface to the
// webhook caller.
const PlaceholderReply = "Thank you for your email. I'll review this and get back to you shortly.\n\nBest regards"
