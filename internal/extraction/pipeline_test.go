package extraction

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/models"
	"github.com/voxnote/reminders-bot/internal/segment"
)

// Wednesday, June 4 2025, 10:00 UTC
var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	seg, err := segment.NewPunktSegmenter()
	require.NoError(t, err)
	return NewPipeline(cfg, seg, clock.Fixed(testNow))
}

func TestExtractExplicitReminder(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("Remind me to call mom tomorrow.")
	require.Len(t, reminders, 1)

	item := reminders[0]
	assert.True(t, len(item.Text) >= 8 && item.Text[:8] == "Call mom", "got text %q", item.Text)
	assert.Equal(t, "Tomorrow", item.TimeReference.RelativeTime)
	assert.Equal(t, models.UrgencyThisWeek, item.Urgency)
	assert.GreaterOrEqual(t, item.Confidence, 0.95)
	assert.Equal(t, StrategyExplicit, item.Strategy)
}

func TestExtractTimeBasedReminder(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("I have a deadline next week for the report.")
	require.Len(t, reminders, 1)

	item := reminders[0]
	assert.Equal(t, StrategyTimeBased, item.Strategy)
	assert.Equal(t, models.UrgencyThisWeek, item.Urgency)
	assert.GreaterOrEqual(t, item.Confidence, 0.7)
	assert.LessOrEqual(t, item.Confidence, 1.0)
}

func TestExtractUrgentKeywordShortCircuits(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("Urgent: remind me to call the client right now.")
	require.Len(t, reminders, 1)
	assert.Equal(t, models.UrgencyImmediate, reminders[0].Urgency)
}

func TestExtractConsolidatesNearDuplicates(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("Remind me to buy milk. Don't forget to buy milk.")
	require.Len(t, reminders, 1)

	item := reminders[0]
	assert.Equal(t, "Buy milk", item.Text)
	assert.InDelta(t, 0.95, item.Confidence, 1e-9)
}

func TestExtractPlainNarrativeYieldsNothing(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("The sun was shining and the birds were singing. We walked along the beach and talked for hours.")
	assert.Empty(t, reminders)
}

func TestExtractHonorsConfidenceThreshold(t *testing.T) {
	text := "The invoice expires eventually."

	permissive := newTestPipeline(t, Config{MaxReminders: 10, MinConfidence: 0.5})
	reminders := permissive.ExtractReminders(text)
	require.Len(t, reminders, 1)
	assert.InDelta(t, 0.7, reminders[0].Confidence, 1e-9)

	strict := newTestPipeline(t, Config{MaxReminders: 10, MinConfidence: 0.8})
	assert.Empty(t, strict.ExtractReminders(text))
}

func TestExtractThresholdInvariant(t *testing.T) {
	cfg := Config{MaxReminders: 10, MinConfidence: 0.75}
	p := newTestPipeline(t, cfg)

	text := "Remind me to call mom tomorrow. I have a deadline next week for the report. Water the plants weekly."
	for _, item := range p.ExtractReminders(text) {
		assert.GreaterOrEqual(t, item.Confidence, cfg.MinConfidence)
	}
}

func TestExtractCapsResults(t *testing.T) {
	p := newTestPipeline(t, Config{MaxReminders: 2, MinConfidence: 0.5})

	text := "Remind me to call mom tomorrow. Don't forget to submit the tax forms by 5pm. Remember to water the plants every week."
	reminders := p.ExtractReminders(text)
	assert.LessOrEqual(t, len(reminders), 2)
}

func TestExtractOrdering(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	text := "Remember to water the plants every week. Remind me to call mom tomorrow. Don't forget to submit the tax forms by 5pm."
	reminders := p.ExtractReminders(text)
	require.NotEmpty(t, reminders)

	sorted := sort.SliceIsSorted(reminders, func(i, j int) bool {
		if reminders[i].Urgency.SortOrder() != reminders[j].Urgency.SortOrder() {
			return reminders[i].Urgency.SortOrder() < reminders[j].Urgency.SortOrder()
		}
		return reminders[i].Confidence > reminders[j].Confidence
	})
	assert.True(t, sorted, "results must be sorted by urgency then confidence")
}

func TestExtractIsDeterministic(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	text := "Remind me to call mom tomorrow. I have a deadline next week for the report. Take your medication daily."
	first := p.ExtractReminders(text)
	second := p.ExtractReminders(text)
	assert.Equal(t, first, second)
}

func TestExtractEventBasedReminder(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("Sarah's birthday is on Friday.")
	require.Len(t, reminders, 1)

	item := reminders[0]
	assert.Equal(t, StrategyEventBased, item.Strategy)
	assert.Equal(t, "Birthday: Sarah's birthday is on Friday", item.Text)
	// 0.6 base + 0.2 specific weekday + 0.1 important event
	assert.InDelta(t, 0.9, item.Confidence, 1e-9)
}

func TestExtractRecurringReminder(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	reminders := p.ExtractReminders("Take your medication daily.")
	require.Len(t, reminders, 1)

	item := reminders[0]
	assert.Equal(t, StrategyRecurring, item.Strategy)
	assert.Equal(t, models.UrgencyLater, item.Urgency)
	assert.Equal(t, "Recurring: daily", item.TimeReference.RelativeTime)
	assert.Nil(t, item.TimeReference.ParsedDate)
	assert.InDelta(t, 0.7, item.Confidence, 1e-9)
}
