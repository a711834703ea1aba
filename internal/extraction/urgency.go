package extraction

import (
	"strings"
	"time"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Keywords that force the immediate tier regardless of any time reference.
var urgentKeywords = []string{"urgent", "asap", "immediately", "right now"}

// classifyUrgency maps a resolved time reference, the raw sentence, and an
// optional strategy hint to an urgency tier.
//
// A parsed date a week or more out does not return a tier directly; it falls
// through to the text heuristics and then the hint. This cascading order is
// part of the contract and must not be reordered.
func classifyUrgency(ref models.TimeReference, sentence string, hint *models.Urgency, now time.Time) models.Urgency {
	lower := strings.ToLower(sentence)
	for _, keyword := range urgentKeywords {
		if strings.Contains(lower, keyword) {
			return models.UrgencyImmediate
		}
	}

	if ref.ParsedDate != nil {
		delta := ref.ParsedDate.Sub(now)
		switch {
		case delta < time.Hour:
			return models.UrgencyImmediate
		case delta < 24*time.Hour:
			return models.UrgencyToday
		case delta < 7*24*time.Hour:
			return models.UrgencyThisWeek
		}
	}

	relative := strings.ToLower(ref.RelativeTime)
	switch {
	case containsAny(relative, "today", "this morning", "this afternoon", "tonight"):
		return models.UrgencyToday
	case containsAny(relative, "tomorrow", "this week"):
		return models.UrgencyThisWeek
	}

	original := strings.ToLower(ref.OriginalText)
	switch {
	case containsAny(original, "today", "now"):
		return models.UrgencyToday
	case containsAny(original, "tomorrow", "this week"):
		return models.UrgencyThisWeek
	}

	if hint != nil {
		return *hint
	}
	return models.UrgencyLater
}
