package verify

import (
	"strings"
	"testing"
)

func TestFilterKeepsSentencesWithoutRiskyTokens(t *testing.T) {
	result := Filter("Thanks for reaching out. Happy to help with this.", "")
	if result.RemovedCount != 0 {
		t.Fatalf("expected no removals, got %d", result.RemovedCount)
	}
	if result.FilteredText != "Thanks for reaching out. Happy to help with this." {
		t.Fatalf("unexpected filtered text: %q", result.FilteredText)
	}
}

func TestFilterRemovesUnsupportedAmount(t *testing.T) {
	draft := "The price is $500 as agreed. Thanks for reaching out."
	evidence := "Subject: Alpha pricing"

	result := Filter(draft, evidence)
	if strings.Contains(result.FilteredText, "$500") {
		t.Fatalf("unsupported amount survived filtering: %q", result.FilteredText)
	}
	if result.FilteredText != "Thanks for reaching out." {
		t.Fatalf("unexpected filtered text: %q", result.FilteredText)
	}
	if result.RemovedCount != 1 || len(result.RemovedSentences) != 1 {
		t.Fatalf("expected exactly one removed sentence, got %d", result.RemovedCount)
	}
}

func TestFilterKeepsSupportedTokens(t *testing.T) {
	draft := "We can meet friday at 3:30 as discussed."
	evidence := "Earlier thread: does Friday at 3:30 work for you?"

	result := Filter(draft, evidence)
	if result.RemovedCount != 0 {
		t.Fatalf("supported sentence was removed: %+v", result.RemovedSentences)
	}
}

func TestFilterRemovesUnsupportedTime(t *testing.T) {
	draft := "Let's do 4pm tomorrow. I will send the agenda."
	evidence := "Subject: catch up"

	result := Filter(draft, evidence)
	if strings.Contains(result.FilteredText, "4pm") {
		t.Fatalf("unsupported time survived: %q", result.FilteredText)
	}
	if !strings.Contains(result.FilteredText, "I will send the agenda.") {
		t.Fatalf("safe sentence missing: %q", result.FilteredText)
	}
}

func TestFilterNeverReturnsEmpty(t *testing.T) {
	draft := "The invoice total is $1,234.56."
	result := Filter(draft, "no evidence at all")

	if result.FilteredText == "" {
		t.Fatal("filter returned empty text")
	}
	// The fallback is the stripped original
	if result.FilteredText != "The invoice total is $1,234.56." {
		t.Fatalf("unexpected fallback text: %q", result.FilteredText)
	}
	if result.RemovedCount != 1 {
		t.Fatalf("expected removal count 1, got %d", result.RemovedCount)
	}
}

func TestFilterStripsMarkup(t *testing.T) {
	draft := "<div>Thanks for the update.<br>See https://example.com/notes for details.</div>"
	evidence := "notes: https://example.com/notes"

	result := Filter(draft, evidence)
	if strings.Contains(result.FilteredText, "<") {
		t.Fatalf("markup survived stripping: %q", result.FilteredText)
	}
	if !strings.Contains(result.FilteredText, "https://example.com/notes") {
		t.Fatalf("supported URL removed: %q", result.FilteredText)
	}
}

func TestFilterRemovesUnsupportedEmailAddress(t *testing.T) {
	draft := "Please contact billing@acme.example for invoices. Let me know if that helps."
	result := Filter(draft, "Subject: invoices")

	if strings.Contains(result.FilteredText, "billing@acme.example") {
		t.Fatalf("unsupported address survived: %q", result.FilteredText)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third?\nTrailing fragment")
	if len(sentences) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "First one." || sentences[3] != "Trailing fragment" {
		t.Fatalf("unexpected split: %v", sentences)
	}
}

func TestRiskyTokensExtraction(t *testing.T) {
	tokens := riskyTokens("Meeting on Monday at 3:30, budget $400")
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	for _, want := range []string{"monday", "3:30", "$400"} {
		if !set[want] {
			t.Fatalf("missing token %q in %v", want, tokens)
		}
	}
}
