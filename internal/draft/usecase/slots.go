package usecase

import (
	"regexp"
	"strings"
)

// Missing-slot detection: lightweight text heuristics flagging blocking
// ambiguity the sender must resolve before a real reply is possible.

var (
	scheduleKeywords   = []string{"schedule", "availability", "meet", "call", "time", "tomorrow"}
	attachmentKeywords = []string{"minutes", "document", "attachment", "file"}

	timeSlotPattern   = regexp.MustCompile(`\b\d{1,2}(:\d{2})?\s?(am|pm)\b`)
	dateSlotPattern   = regexp.MustCompile(`\b(mon|tue|wed|thu|fri|sat|sun|\d{1,2}[/-]\d{1,2})\b`)
	attachmentPattern = regexp.MustCompile(`attach|attached|enclosed`)
)

// detectMissingSlots flags scheduling requests without a concrete time/date
// and document mentions without an attachment reference. The returned order
// is fixed: time/date first, then attachment.
func detectMissingSlots(subject, body string) []string {
	text := strings.ToLower(subject + "\n" + body)

	var slots []string
	if containsAny(text, scheduleKeywords) {
		if !timeSlotPattern.MatchString(text) && !dateSlotPattern.MatchString(text) {
			slots = append(slots, "proposed time/date")
		}
	}
	if containsAny(text, attachmentKeywords) {
		if !attachmentPattern.MatchString(text) {
			slots = append(slots, "document/attachment reference")
		}
	}
	return slots
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
