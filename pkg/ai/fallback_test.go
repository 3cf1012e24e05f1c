package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"draftpilot-backend/internal/draft/domain"
)

type scriptedService struct {
	text  string
	errs  []error
	calls int
}

func (s *scriptedService) next() (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	return s.text, nil
}

func (s *scriptedService) GenerateReply(_ context.Context, _ *domain.Message, _, _ string) (string, error) {
	return s.next()
}

func (s *scriptedService) GenerateClarification(_ context.Context, _ *domain.Message, _ []string) (string, error) {
	return s.next()
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:11434: connection refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("request timeout exceeded"), true},
		{errors.New("invalid model name"), false},
	}
	for _, tc := range cases {
		if got := isConnectionError(tc.err); got != tc.want {
			t.Fatalf("isConnectionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsQuotaError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("gemini API error (status 429): resource exhausted"), true},
		{errors.New("rate limit reached for the project"), true},
		{errors.New("bad request"), false},
	}
	for _, tc := range cases {
		if got := isQuotaError(tc.err); got != tc.want {
			t.Fatalf("isQuotaError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestFallbackPrefersGemini(t *testing.T) {
	gemini := &scriptedService{text: "from gemini"}
	svc := &FallbackService{gemini: gemini}

	got, err := svc.GenerateReply(context.Background(), &domain.Message{}, "", "")
	if err != nil || got != "from gemini" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFallbackRoutesToOllamaOnGeminiFailure(t *testing.T) {
	gemini := &scriptedService{errs: []error{errors.New("gemini API error (status 429): quota")}}
	ollama := NewOllamaService("http://127.0.0.1:1", "llama3")
	svc := &FallbackService{gemini: gemini, ollama: ollama}

	// Ollama is unreachable in tests, so the router retries Gemini, which
	// succeeds on the second call.
	gemini.text = "second attempt"
	gemini.errs = append(gemini.errs, nil)
	got, err := svc.GenerateReply(context.Background(), &domain.Message{}, "", "")
	if err != nil {
		t.Fatalf("expected gemini retry to succeed: %v", err)
	}
	if got != "second attempt" {
		t.Fatalf("got %q", got)
	}
	if gemini.calls != 2 {
		t.Fatalf("expected 2 gemini calls, got %d", gemini.calls)
	}
}

func TestFallbackNoProviders(t *testing.T) {
	svc := &FallbackService{}
	if _, err := svc.GenerateReply(context.Background(), &domain.Message{}, "", ""); err == nil {
		t.Fatal("expected error with no providers")
	}
}

func TestFactorySelection(t *testing.T) {
	if _, err := NewReplyService(Config{Provider: ProviderGemini}); err == nil {
		t.Fatal("gemini provider without key must fail")
	}

	svc, err := NewReplyService(Config{Provider: ProviderOllama, OllamaBaseURL: "http://localhost:11434", OllamaModel: "llama3"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.(*OllamaService); !ok {
		t.Fatalf("expected OllamaService, got %T", svc)
	}

	svc, err = NewReplyService(Config{Provider: ProviderAuto, GeminiAPIKey: "key", OllamaBaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.(*FallbackService); !ok {
		t.Fatalf("auto with gemini key must route through FallbackService, got %T", svc)
	}
}

func TestBuildReplyPromptIncludesEvidence(t *testing.T) {
	msg := &domain.Message{Sender: "alice@example.com", Subject: "Status", Body: "Where are we?"}

	prompt := buildReplyPrompt(msg, "similar block", "history block")
	for _, want := range []string{"alice@example.com", "similar block", "history block", "EVIDENCE - CURRENT EMAIL"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	bare := buildReplyPrompt(msg, "", "")
	if strings.Contains(bare, "SIMILAR PREVIOUS EMAIL") || strings.Contains(bare, "PRIOR MESSAGES") {
		t.Fatal("empty evidence sections must be omitted")
	}
}

func TestBuildClarificationPromptListsSlots(t *testing.T) {
	msg := &domain.Message{Sender: "alice@example.com", Subject: "Meet?"}

	prompt := buildClarificationPrompt(msg, []string{"proposed time/date", "document/attachment reference"})
	if !strings.Contains(prompt, "proposed time/date, document/attachment reference") {
		t.Fatalf("slots missing from prompt: %s", prompt)
	}
}
