package extraction

import (
	"strings"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Imperative reminder phrases with their base confidence. Declared order is
// the match order; longer phrases come before their prefixes so the most
// specific phrasing wins.
var explicitPhrases = []struct {
	phrase string
	base   float64
}{
	{"remind me to", 0.95},
	{"don't forget to", 0.95},
	{"set a reminder to", 0.95},
	{"remind me", 0.9},
	{"don't forget", 0.9},
	{"remember to", 0.9},
	{"set reminder for", 0.9},
	{"note to self:", 0.9},
	{"make sure to", 0.9},
	{"i need to remember", 0.9},
}

// extractExplicit detects direct reminder phrasing. The matched prefix is
// stripped from the reminder text.
func (p *Pipeline) extractExplicit(sentence string) []models.ReminderItem {
	lower := strings.ToLower(sentence)
	for _, entry := range explicitPhrases {
		if !strings.Contains(lower, entry.phrase) {
			continue
		}

		text := stripPhrasePrefix(sentence, entry.phrase)
		ref := p.resolver.Resolve(sentence)
		urgency := classifyUrgency(ref, sentence, nil, p.clock.Now())

		var specificBoost, connectiveBoost float64
		if ref.IsSpecific() {
			specificBoost = 0.1
		}
		if containsConnective(text) {
			connectiveBoost = 0.05
		}
		confidence := scoreConfidence(entry.base, specificBoost, connectiveBoost)
		if confidence < p.cfg.MinConfidence {
			return nil
		}

		item := models.NewReminderItem(text, ref, urgency, confidence, StrategyExplicit)
		return []models.ReminderItem{item}
	}
	return nil
}
