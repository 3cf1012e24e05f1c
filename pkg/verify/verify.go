// Package verify filters generated draft text against grounding evidence.
// It is a precision-over-recall safety pass: it only ever removes sentences,
// never adds or rewrites content.
package verify

import (
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	timePattern     = regexp.MustCompile(`\b\d{1,2}:\d{2}\b|\b\d{1,2}\s?(?:am|pm)\b`)
	numberPattern   = regexp.MustCompile(`\$\d+[\d,]*(?:\.\d+)?|\b\d+\.\d+\b|\b\d{4}\b`)
	urlEmailPattern = regexp.MustCompile(`https?://\S+|\b[\w.-]+@[\w.-]+\b`)
)

// Month and weekday names, full and abbreviated. Matched by substring, so
// "monday" also covers "mon" being present in evidence.
var calendarWords = []string{
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"mon", "tue", "tues", "weds", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Result reports what the filter kept and dropped.
type Result struct {
	FilteredText     string
	RemovedCount     int
	RemovedSentences []string
}

// StripTags replaces markup tags with spaces so sentence boundaries survive.
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, " "))
}

// riskyTokens extracts substrings of a sentence that are unsafe to state
// unless evidenced: calendar words, clock times, money/numeric values, and
// URL/email shapes. All matching is over the lowercased sentence.
func riskyTokens(sentence string) []string {
	t := strings.ToLower(sentence)
	seen := make(map[string]struct{})
	var tokens []string
	add := func(tok string) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	for _, w := range calendarWords {
		if strings.Contains(t, w) {
			add(w)
		}
	}
	for _, m := range timePattern.FindAllString(t, -1) {
		add(m)
	}
	for _, m := range numberPattern.FindAllString(t, -1) {
		add(m)
	}
	for _, m := range urlEmailPattern.FindAllString(t, -1) {
		add(m)
	}
	return tokens
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' || runes[i+1] == '\r') {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// Filter strips markup from the draft, then keeps each sentence only if every
// risky token it contains appears verbatim (case-insensitive) in the
// evidence. Sentences without risky tokens are always kept. If everything
// would be dropped the original stripped text is returned instead; the
// filter never returns empty output.
func Filter(draftHTML, evidence string) Result {
	draftText := StripTags(draftHTML)
	evidenceNorm := strings.ToLower(evidence)

	var kept, removed []string
	for _, sentence := range splitSentences(draftText) {
		tokens := riskyTokens(sentence)
		if len(tokens) == 0 {
			kept = append(kept, sentence)
			continue
		}
		supported := true
		for _, tok := range tokens {
			if !strings.Contains(evidenceNorm, tok) {
				supported = false
				break
			}
		}
		if supported {
			kept = append(kept, sentence)
		} else {
			removed = append(removed, sentence)
		}
	}

	filtered := strings.TrimSpace(strings.Join(kept, " "))
	if filtered == "" {
		filtered = draftText
	}
	return Result{
		FilteredText:     filtered,
		RemovedCount:     len(removed),
		RemovedSentences: removed,
	}
}
