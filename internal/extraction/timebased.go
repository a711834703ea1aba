package extraction

import (
	"strings"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Appointment/deadline phrasing mapped to an urgency hint for the classifier.
var timeBasedPhrases = []struct {
	phrase string
	hint   models.Urgency
}{
	{"deadline", models.UrgencyThisWeek},
	{"due by", models.UrgencyThisWeek},
	{"due on", models.UrgencyThisWeek},
	{"due date", models.UrgencyThisWeek},
	{"appointment at", models.UrgencyToday},
	{"appointment on", models.UrgencyThisWeek},
	{"meeting at", models.UrgencyToday},
	{"meeting on", models.UrgencyThisWeek},
	{"scheduled for", models.UrgencyThisWeek},
	{"expires", models.UrgencyThisWeek},
	{"submit by", models.UrgencyThisWeek},
}

// Subset whose presence anywhere in the sentence earns the strong-pattern boost.
var strongTimePhrases = []string{"deadline", "due by", "appointment at", "meeting at"}

// extractTimeBased detects appointment and deadline phrasing. The candidate
// requires the resolved reference to be specific or at least carry its
// original text.
func (p *Pipeline) extractTimeBased(sentence string) []models.ReminderItem {
	lower := strings.ToLower(sentence)
	for _, entry := range timeBasedPhrases {
		if !strings.Contains(lower, entry.phrase) {
			continue
		}

		ref := p.resolver.Resolve(sentence)
		if !ref.IsSpecific() && ref.OriginalText == "" {
			return nil
		}

		hint := entry.hint
		urgency := classifyUrgency(ref, sentence, &hint, p.clock.Now())

		var specificBoost, strongBoost float64
		if ref.IsSpecific() {
			specificBoost = 0.2
		}
		if containsAny(lower, strongTimePhrases...) {
			strongBoost = 0.1
		}
		confidence := scoreConfidence(0.7, specificBoost, strongBoost)
		if confidence < p.cfg.MinConfidence {
			return nil
		}

		item := models.NewReminderItem(cleanText(sentence), ref, urgency, confidence, StrategyTimeBased)
		return []models.ReminderItem{item}
	}
	return nil
}
