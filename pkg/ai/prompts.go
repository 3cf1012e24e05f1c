package ai

// Prompt builders for the reply assistant. Edit these to tune tone and
// strategy without touching provider code.
//
// Guardrails applied to every prompt:
// - Ground every statement strictly in the evidence provided.
// - Missing or uncertain information becomes a clarifying question, not a guess.
// - Never propose dates/times unless they appear in the evidence.

import (
	"fmt"
	"strings"

	"draftpilot-backend/internal/draft/domain"
)

const systemPrompt = "You are a professional email assistant. Ground every statement strictly in " +
	"the provided evidence (current email, similar emails, additional context, and citations). " +
	"Do not invent facts, figures, prices, commitments, dates, or availability. " +
	"If something is not present in the evidence, either ask a concise clarifying " +
	"question or omit it. Never propose dates/times unless explicitly present in the evidence. " +
	"Prefer concise, courteous, and unambiguous language."

// extractMessageContext renders the current message as an evidence block,
// truncating long bodies.
func extractMessageContext(msg *domain.Message) string {
	body := msg.Body
	if len(body) > 2000 {
		body = body[:2000] + "..."
	}
	return fmt.Sprintf("From: %s\nSubject: %s\nBody: %s", msg.Sender, msg.Subject, body)
}

func buildReplyPrompt(msg *domain.Message, similarContext, historyContext string) string {
	var b strings.Builder
	b.WriteString("Using only the evidence below, write a professional reply.\n\n")
	b.WriteString("EVIDENCE - CURRENT EMAIL\n")
	b.WriteString(extractMessageContext(msg))
	b.WriteString("\n")

	if similarContext != "" {
		b.WriteString("\nEVIDENCE - SIMILAR PREVIOUS EMAIL\n")
		b.WriteString(similarContext)
		b.WriteString("\n")
	}
	if historyContext != "" {
		b.WriteString("\nEVIDENCE - PRIOR MESSAGES & DRAFTS WITH THIS SENDER\n")
		b.WriteString(historyContext)
		b.WriteString("\n")
	}

	b.WriteString(`
Requirements:
- Use only facts present in the evidence. Do not invent details.
- If information is missing, ask a concise clarifying question.
- Never propose specific dates/times unless they appear in the evidence.
- Keep it concise, helpful, and actionable.

Reply:`)
	return b.String()
}

func buildClarificationPrompt(msg *domain.Message, missingSlots []string) string {
	missing := "the missing information"
	if len(missingSlots) > 0 {
		missing = strings.Join(missingSlots, ", ")
	}
	return fmt.Sprintf(`You must ask a SINGLE concise clarification message that covers all missing blocking details at once.

EVIDENCE - CURRENT EMAIL
%s

Missing blocking slots: %s

Rules:
- Ask ONE message, bullet or short list is fine.
- Be specific and actionable. Offer 2-3 options where possible.
- Be polite and brief. Do not include any other content.

Clarification message:`, extractMessageContext(msg), missing)
}
