package extraction

import (
	"strings"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Named-occasion phrases mapped to a display category.
var eventPhrases = []struct {
	phrase   string
	category string
}{
	{"birthday", "Birthday"},
	{"anniversary", "Anniversary"},
	{"wedding", "Wedding"},
	{"graduation", "Graduation"},
	{"interview", "Interview"},
	{"conference", "Conference"},
	{"party", "Party"},
	{"holiday", "Holiday"},
	{"vacation", "Vacation"},
	{"concert", "Concert"},
}

// Categories that earn the important-event boost.
var importantEvents = map[string]bool{
	"Birthday":    true,
	"Anniversary": true,
	"Wedding":     true,
	"Interview":   true,
}

// extractEventBased detects named occasions. The candidate text is prefixed
// with the matched category.
func (p *Pipeline) extractEventBased(sentence string) []models.ReminderItem {
	lower := strings.ToLower(sentence)
	for _, entry := range eventPhrases {
		if !strings.Contains(lower, entry.phrase) {
			continue
		}

		ref := p.resolver.Resolve(sentence)
		if ref.OriginalText == "" {
			return nil
		}

		var specificBoost, importantBoost float64
		if ref.IsSpecific() {
			specificBoost = 0.2
		}
		if importantEvents[entry.category] {
			importantBoost = 0.1
		}
		confidence := scoreConfidence(0.6, specificBoost, importantBoost)
		if confidence < p.cfg.MinConfidence {
			return nil
		}

		urgency := classifyUrgency(ref, sentence, nil, p.clock.Now())
		text := entry.category + ": " + cleanText(sentence)

		item := models.NewReminderItem(text, ref, urgency, confidence, StrategyEventBased)
		return []models.ReminderItem{item}
	}
	return nil
}
