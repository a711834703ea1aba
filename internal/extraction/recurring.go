package extraction

import (
	"strings"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Periodicity phrases. The time reference is synthesized directly; recurring
// reminders never carry a parsed date and always classify as later.
var recurringPhrases = []string{
	"every day",
	"daily",
	"every week",
	"weekly",
	"every month",
	"monthly",
	"every morning",
	"every evening",
	"every night",
	"every monday",
	"every tuesday",
	"every wednesday",
	"every thursday",
	"every friday",
	"every saturday",
	"every sunday",
}

// Subset that earns the strong-periodicity boost.
var strongRecurringPhrases = map[string]bool{
	"every day": true,
	"daily":     true,
	"weekly":    true,
	"monthly":   true,
}

// extractRecurring detects periodicity phrasing.
func (p *Pipeline) extractRecurring(sentence string) []models.ReminderItem {
	lower := strings.ToLower(sentence)
	for _, phrase := range recurringPhrases {
		if !strings.Contains(lower, phrase) {
			continue
		}

		ref := models.TimeReference{
			OriginalText: phrase,
			RelativeTime: "Recurring: " + phrase,
		}

		var strongBoost float64
		if strongRecurringPhrases[phrase] {
			strongBoost = 0.2
		}
		confidence := scoreConfidence(0.5, strongBoost)
		if confidence < p.cfg.MinConfidence {
			return nil
		}

		item := models.NewReminderItem(cleanText(sentence), ref, models.UrgencyLater, confidence, StrategyRecurring)
		return []models.ReminderItem{item}
	}
	return nil
}
