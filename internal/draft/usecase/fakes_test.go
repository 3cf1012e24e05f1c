package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"draftpilot-backend/internal/draft/domain"
	"draftpilot-backend/pkg/config"
)

// Shared in-memory fakes for the pipeline collaborators.

type fakeProvider struct {
	messages      map[string]*domain.Message
	senderHistory []*domain.Message
	drafts        []*domain.Message

	fetchErr  error
	createErr error

	created []createdDraft
}

type createdDraft struct {
	originalID string
	body       string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{messages: make(map[string]*domain.Message)}
}

func (f *fakeProvider) GetMessage(_ context.Context, id string) (*domain.Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	msg, ok := f.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return msg, nil
}

func (f *fakeProvider) GetMessagesFromSender(_ context.Context, _ string, _, limit int) ([]*domain.Message, error) {
	if len(f.senderHistory) > limit {
		return f.senderHistory[:limit], nil
	}
	return f.senderHistory, nil
}

func (f *fakeProvider) GetDraftsToRecipient(_ context.Context, _ string, limit int) ([]*domain.Message, error) {
	if len(f.drafts) > limit {
		return f.drafts[:limit], nil
	}
	return f.drafts, nil
}

func (f *fakeProvider) CreateDraftReply(_ context.Context, originalID, htmlBody string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, createdDraft{originalID: originalID, body: htmlBody})
	return fmt.Sprintf("draft-%d", len(f.created)), nil
}

type fakeReplyService struct {
	replyText    string
	replyErr     error
	clarifyText  string
	clarifyErr   error
	replyCalls   int
	clarifyCalls int
}

func (f *fakeReplyService) GenerateReply(_ context.Context, _ *domain.Message, _, _ string) (string, error) {
	f.replyCalls++
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.replyText, nil
}

func (f *fakeReplyService) GenerateClarification(_ context.Context, _ *domain.Message, _ []string) (string, error) {
	f.clarifyCalls++
	if f.clarifyErr != nil {
		return "", f.clarifyErr
	}
	return f.clarifyText, nil
}

type fakeIndexRepo struct {
	entries   []domain.IndexEntry
	upserted  [][]*domain.Message
	upsertErr error
	searchErr map[string]error
}

func newFakeIndexRepo() *fakeIndexRepo {
	return &fakeIndexRepo{searchErr: make(map[string]error)}
}

func (f *fakeIndexRepo) UpsertMessages(messages []*domain.Message) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, messages)
	return nil
}

func (f *fakeIndexRepo) SearchLexical(term, sender string, limit int) ([]domain.IndexEntry, error) {
	if err, ok := f.searchErr[term]; ok {
		return nil, err
	}
	needle := strings.ToLower(term)
	var out []domain.IndexEntry
	for _, entry := range f.entries {
		if sender != "" && entry.Sender != sender {
			continue
		}
		haystack := strings.ToLower(entry.Subject + " " + entry.BodyPreview)
		if !strings.Contains(haystack, needle) {
			continue
		}
		out = append(out, entry)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// newTestUsecase wires the fakes into a concrete draftUsecase with a
// controllable clock.
func newTestUsecase(provider *fakeProvider, aiSvc *fakeReplyService, repo *fakeIndexRepo) *draftUsecase {
	cfg := &config.Config{
		DedupWindow:     60 * time.Second,
		SimilarityFloor: 20,
	}
	uc := NewDraftUsecase(repo, provider, aiSvc, cfg).(*draftUsecase)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }
	return uc
}
