package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxnote/reminders-bot/internal/models"
)

func refAt(t time.Time) models.TimeReference {
	return models.TimeReference{OriginalText: "Scheduled time", ParsedDate: &t}
}

func TestClassifyUrgency(t *testing.T) {
	hintThisWeek := models.UrgencyThisWeek

	tests := []struct {
		name     string
		ref      models.TimeReference
		sentence string
		hint     *models.Urgency
		want     models.Urgency
	}{
		{
			name:     "urgent keyword short-circuits everything",
			ref:      refAt(testNow.AddDate(0, 2, 0)),
			sentence: "Urgent: call the client right now.",
			want:     models.UrgencyImmediate,
		},
		{
			name:     "asap keyword",
			ref:      models.TimeReference{OriginalText: models.NoSpecificTime},
			sentence: "Send the files asap.",
			want:     models.UrgencyImmediate,
		},
		{
			name:     "parsed date under an hour",
			ref:      refAt(testNow.Add(30 * time.Minute)),
			sentence: "Check the oven in 30 minutes.",
			want:     models.UrgencyImmediate,
		},
		{
			name:     "parsed date later today",
			ref:      refAt(testNow.Add(6 * time.Hour)),
			sentence: "The meeting is at 4pm.",
			want:     models.UrgencyToday,
		},
		{
			name:     "parsed date within the week",
			ref:      refAt(testNow.AddDate(0, 0, 3)),
			sentence: "Pick up the package on Saturday.",
			want:     models.UrgencyThisWeek,
		},
		{
			name:     "far-future date falls through to hint",
			ref:      refAt(testNow.AddDate(0, 1, 0)),
			sentence: "The filing deadline is July 4.",
			hint:     &hintThisWeek,
			want:     models.UrgencyThisWeek,
		},
		{
			name:     "far-future date without hint defaults to later",
			ref:      refAt(testNow.AddDate(0, 1, 0)),
			sentence: "The conference is in a month or so.",
			want:     models.UrgencyLater,
		},
		{
			name:     "relative text tonight",
			ref:      models.TimeReference{OriginalText: "tonight", RelativeTime: "tonight"},
			sentence: "Take out the trash tonight.",
			want:     models.UrgencyToday,
		},
		{
			name:     "relative text tomorrow",
			ref:      models.TimeReference{OriginalText: "tomorrow", RelativeTime: "Tomorrow"},
			sentence: "Call mom tomorrow.",
			want:     models.UrgencyThisWeek,
		},
		{
			name:     "original text this week",
			ref:      models.TimeReference{OriginalText: "this week"},
			sentence: "Wrap it up within this week.",
			want:     models.UrgencyThisWeek,
		},
		{
			name:     "hint used when no other signal",
			ref:      models.TimeReference{OriginalText: models.NoSpecificTime},
			sentence: "The report has a deadline.",
			hint:     &hintThisWeek,
			want:     models.UrgencyThisWeek,
		},
		{
			name:     "default later",
			ref:      models.TimeReference{OriginalText: models.NoSpecificTime},
			sentence: "Buy milk.",
			want:     models.UrgencyLater,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUrgency(tt.ref, tt.sentence, tt.hint, testNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUrgencyOrdering(t *testing.T) {
	assert.Less(t, models.UrgencyImmediate.SortOrder(), models.UrgencyToday.SortOrder())
	assert.Less(t, models.UrgencyToday.SortOrder(), models.UrgencyThisWeek.SortOrder())
	assert.Less(t, models.UrgencyThisWeek.SortOrder(), models.UrgencyLater.SortOrder())
}
