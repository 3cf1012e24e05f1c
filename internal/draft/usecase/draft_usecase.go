package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"draftpilot-backend/internal/draft/domain"
	"draftpilot-backend/internal/draft/repository"
	"draftpilot-backend/pkg/ai"
	"draftpilot-backend/pkg/config"
	"draftpilot-backend/pkg/verify"
)

const (
	historyDays         = 365
	senderHistoryLimit  = 50
	draftHistoryLimit   = 25
	historySummaryItems = 10
	summaryPreviewChars = 200
	citationLimit       = 5
	queryTermMinLen     = 3 // query terms must be longer than this
	queryTermMax        = 6
	draftPreviewChars   = 280
	recentDraftCapacity = 50
)

// Subjects of auto-generated mail the pipeline must never reply to.
var skipSubjects = []string{"out of office", "automatic reply", "delivery failure", "undeliverable"}

// draftUsecase implements DraftUsecase
type draftUsecase struct {
	indexRepo repository.MessageIndexRepository
	provider  domain.MailProvider
	aiService ai.ReplyService

	similarityFloor int
	dedupWindow     time.Duration

	// Processing ledger: in-flight ids and recently processed timestamps.
	// Shared between webhook deliveries running on different goroutines, so
	// both maps stay behind one mutex.
	ledgerMu          sync.Mutex
	inflight          map[string]struct{}
	recentlyProcessed map[string]time.Time

	// Per-conversation clarification counters, process lifetime only.
	clarifyMu    sync.Mutex
	clarifyState map[string]*clarificationState

	// Expected subscription clientState; empty disables the check.
	clientStateMu sync.RWMutex
	clientState   string

	recentDrafts *draftRing

	now func() time.Time
}

type clarificationState struct {
	Count  int
	LastAt time.Time
}

// NewDraftUsecase creates a new instance of draftUsecase
func NewDraftUsecase(indexRepo repository.MessageIndexRepository, provider domain.MailProvider, aiService ai.ReplyService, cfg *config.Config) DraftUsecase {
	uc := &draftUsecase{
		indexRepo:         indexRepo,
		provider:          provider,
		aiService:         aiService,
		similarityFloor:   cfg.SimilarityFloor,
		dedupWindow:       cfg.DedupWindow,
		inflight:          make(map[string]struct{}),
		recentlyProcessed: make(map[string]time.Time),
		clarifyState:      make(map[string]*clarificationState),
		recentDrafts:      newDraftRing(recentDraftCapacity),
		now:               time.Now,
	}
	uc.startLedgerSweeper()
	return uc
}

// SetClientState wires the subscription clientState after monitoring starts
func (u *draftUsecase) SetClientState(state string) {
	u.clientStateMu.Lock()
	u.clientState = state
	u.clientStateMu.Unlock()
}

func (u *draftUsecase) expectedClientState() string {
	u.clientStateMu.RLock()
	defer u.clientStateMu.RUnlock()
	return u.clientState
}

func (u *draftUsecase) ListRecentDrafts() []domain.DraftRecord {
	return u.recentDrafts.List()
}

// generateDraftReply is the core pipeline for one message id. Any error
// returned here means "no draft produced"; the only retry path is a future
// duplicate notification arriving outside the suppression window.
func (u *draftUsecase) generateDraftReply(ctx context.Context, messageID string) error {
	msg, err := u.provider.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("fetch message: %w", err)
	}

	if shouldSkipMessage(msg) {
		log.Printf("[Draft] Skipping message %s - auto-generated or excluded subject", messageID)
		return nil
	}

	// Prior context: messages from the sender plus drafts already addressed
	// to them.
	priorFromSender, err := u.provider.GetMessagesFromSender(ctx, msg.Sender, historyDays, senderHistoryLimit)
	if err != nil {
		return fmt.Errorf("fetch sender history: %w", err)
	}
	draftsToSender, err := u.provider.GetDraftsToRecipient(ctx, msg.Sender, draftHistoryLimit)
	if err != nil {
		return fmt.Errorf("fetch drafts to sender: %w", err)
	}

	history := make([]*domain.Message, 0, len(priorFromSender)+len(draftsToSender))
	history = append(history, priorFromSender...)
	history = append(history, draftsToSender...)

	// Indexing is advisory: retrieval quality degrades, correctness does not.
	if err := u.indexRepo.UpsertMessages(history); err != nil {
		log.Printf("[Index] Failed to upsert %d history messages (continuing): %v", len(history), err)
	}

	similarContext, similar := u.findSimilarMessage(msg, history)
	historyContext := buildHistoryContext(priorFromSender, draftsToSender)

	citations := u.RetrieveCitations(queryTerms(msg.Subject), "", citationLimit)

	missingSlots := detectMissingSlots(msg.Subject, msg.Body)
	lowConfidence := len(citations) == 0 && similar == nil

	if len(missingSlots) > 0 && lowConfidence && u.clarificationCount(msg.ConversationID) < 1 {
		// Ask one aggregated clarification instead of guessing a reply.
		text, err := u.aiService.GenerateClarification(ctx, msg, missingSlots)
		if err != nil {
			log.Printf("[AI] Clarification generation failed, using placeholder: %v", err)
			text = ai.PlaceholderReply
		}
		if _, err := u.provider.CreateDraftReply(ctx, msg.ID, formatDraftContent(text)); err != nil {
			return fmt.Errorf("create clarification draft: %w", err)
		}
		u.recordClarification(msg.ConversationID)
		log.Printf("[Draft] Created clarification draft for conversation %s", msg.ConversationID)
		return nil
	}

	text, err := u.aiService.GenerateReply(ctx, msg, similarContext, historyContext)
	if err != nil {
		log.Printf("[AI] Reply generation failed, using placeholder: %v", err)
		text = ai.PlaceholderReply
	}

	// Verifier pass: drop sentences whose risky tokens are not evidenced.
	evidence := strings.Join([]string{
		msg.Subject,
		summarizeMessages(priorFromSender),
		summarizeMessages(draftsToSender),
	}, "\n\n")
	result := verify.Filter(text, evidence)
	if result.RemovedCount > 0 {
		log.Printf("[Verify] Removed %d unsupported sentence(s) from draft for %s", result.RemovedCount, messageID)
	}

	formatted := formatDraftContent(result.FilteredText)
	if _, err := u.provider.CreateDraftReply(ctx, msg.ID, formatted); err != nil {
		return fmt.Errorf("create reply draft: %w", err)
	}
	log.Printf("[Draft] Created draft reply for message %s", messageID)

	// Display record only; must never undo the persisted draft.
	u.recordRecentDraft(msg, formatted, similar, citations)
	return nil
}

func shouldSkipMessage(msg *domain.Message) bool {
	for _, cat := range msg.Categories {
		lower := strings.ToLower(cat)
		if strings.Contains(lower, "auto") || strings.Contains(lower, "notification") {
			return true
		}
	}
	subject := strings.ToLower(msg.Subject)
	for _, skip := range skipSubjects {
		if strings.Contains(subject, skip) {
			return true
		}
	}
	return false
}

// queryTerms derives retrieval terms from a subject line: words longer than
// queryTermMinLen characters, first queryTermMax of them.
func queryTerms(subject string) []string {
	var terms []string
	for _, w := range strings.Fields(subject) {
		if len(w) > queryTermMinLen {
			terms = append(terms, w)
			if len(terms) >= queryTermMax {
				break
			}
		}
	}
	return terms
}

// summarizeMessages renders a compact evidence block from the first
// historySummaryItems messages.
func summarizeMessages(items []*domain.Message) string {
	var lines []string
	for i, m := range items {
		if i >= historySummaryItems {
			break
		}
		preview := m.PreviewText()
		if runes := []rune(preview); len(runes) > summaryPreviewChars {
			preview = string(runes[:summaryPreviewChars])
		}
		lines = append(lines, fmt.Sprintf("Subject: %s\nPreview: %s", m.Subject, preview))
	}
	return strings.Join(lines, "\n\n")
}

func buildHistoryContext(priorFromSender, draftsToSender []*domain.Message) string {
	context := summarizeMessages(priorFromSender)
	if len(draftsToSender) > 0 {
		context += "\n\n--- Drafts ---\n" + summarizeMessages(draftsToSender)
	}
	return context
}

func formatDraftContent(content string) string {
	if !strings.HasPrefix(content, "<") {
		content = "<div>" + content + "</div>"
	}
	return strings.ReplaceAll(content, "\n", "<br>")
}

func (u *draftUsecase) clarificationCount(conversationID string) int {
	if conversationID == "" {
		return 0
	}
	u.clarifyMu.Lock()
	defer u.clarifyMu.Unlock()
	if state, ok := u.clarifyState[conversationID]; ok {
		return state.Count
	}
	return 0
}

func (u *draftUsecase) recordClarification(conversationID string) {
	if conversationID == "" {
		return
	}
	u.clarifyMu.Lock()
	defer u.clarifyMu.Unlock()
	state, ok := u.clarifyState[conversationID]
	if !ok {
		state = &clarificationState{}
		u.clarifyState[conversationID] = state
	}
	state.Count++
	state.LastAt = u.now()
}

func (u *draftUsecase) recordRecentDraft(msg *domain.Message, formattedDraft string, similar *domain.Message, citations []domain.Citation) {
	preview := verify.StripTags(formattedDraft)
	if runes := []rune(preview); len(runes) > draftPreviewChars {
		preview = string(runes[:draftPreviewChars]) + "…"
	}

	record := domain.DraftRecord{
		MessageID:    msg.ID,
		Sender:       msg.Sender,
		Subject:      msg.Subject,
		DraftPreview: preview,
		Citations:    citations,
		CreatedAt:    u.now().UTC(),
	}
	if similar != nil {
		record.SimilarSender = similar.Sender
		record.SimilarSubject = similar.Subject
	}
	u.recentDrafts.Add(record)
}
