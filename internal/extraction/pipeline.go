// Package extraction implements the reminder-extraction pipeline: four
// candidate-detection strategies over each sentence, urgency classification,
// per-strategy confidence scoring, similarity-based consolidation, and final
// ranking.
package extraction

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/models"
	"github.com/voxnote/reminders-bot/internal/segment"
	"github.com/voxnote/reminders-bot/internal/temporal"
)

// Strategy identifiers recorded on extracted reminders.
const (
	StrategyExplicit   = "explicit"
	StrategyTimeBased  = "time_based"
	StrategyEventBased = "event_based"
	StrategyRecurring  = "recurring"
)

// Config holds the pipeline's static configuration.
type Config struct {
	MaxReminders  int     // output cap
	MinConfidence float64 // quality gate applied per strategy, before consolidation
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		MaxReminders:  10,
		MinConfidence: 0.5,
	}
}

// Pipeline runs the full extraction over a passage of text. It holds only
// read-only configuration and is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	segmenter segment.Segmenter
	resolver  *temporal.Resolver
	clock     clock.Clock
}

// NewPipeline builds a pipeline around the given segmenter and clock.
func NewPipeline(cfg Config, segmenter segment.Segmenter, clk clock.Clock) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		segmenter: segmenter,
		resolver:  temporal.NewResolver(clk),
		clock:     clk,
	}
}

// ExtractReminders segments the text, runs all four strategies per sentence,
// consolidates near-duplicates, ranks by urgency then confidence, and
// truncates to the configured cap. Absence of matches yields an empty list,
// never an error.
func (p *Pipeline) ExtractReminders(text string) []models.ReminderItem {
	var candidates []models.ReminderItem

	sentences := p.segmenter.Segment(text)
	for _, sentence := range sentences {
		candidates = append(candidates, p.extractExplicit(sentence)...)
		candidates = append(candidates, p.extractTimeBased(sentence)...)
		candidates = append(candidates, p.extractEventBased(sentence)...)
		candidates = append(candidates, p.extractRecurring(sentence)...)
	}

	logrus.Debugf("Extracted %d candidates from %d sentences", len(candidates), len(sentences))

	reminders := Consolidate(candidates)

	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].Urgency.SortOrder() != reminders[j].Urgency.SortOrder() {
			return reminders[i].Urgency.SortOrder() < reminders[j].Urgency.SortOrder()
		}
		return reminders[i].Confidence > reminders[j].Confidence
	})

	if len(reminders) > p.cfg.MaxReminders {
		reminders = reminders[:p.cfg.MaxReminders]
	}

	return reminders
}
