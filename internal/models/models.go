package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Urgency is an ordered tier describing how soon a reminder matters.
// Lower sort order means more urgent.
type Urgency int

const (
	UrgencyImmediate Urgency = iota
	UrgencyToday
	UrgencyThisWeek
	UrgencyLater
)

// SortOrder returns the integer used for ascending (most urgent first) ranking.
func (u Urgency) SortOrder() int {
	return int(u)
}

func (u Urgency) String() string {
	switch u {
	case UrgencyImmediate:
		return "immediate"
	case UrgencyToday:
		return "today"
	case UrgencyThisWeek:
		return "this_week"
	default:
		return "later"
	}
}

// MarshalJSON renders the tier as its string name.
func (u Urgency) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON parses the string name back into a tier.
func (u *Urgency) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "immediate":
		*u = UrgencyImmediate
	case "today":
		*u = UrgencyToday
	case "this_week":
		*u = UrgencyThisWeek
	default:
		*u = UrgencyLater
	}
	return nil
}

// NoSpecificTime is the fallback label when a sentence carries no temporal cue.
const NoSpecificTime = "No specific time"

// TimeReference is the normalized temporal reference resolved from a sentence.
type TimeReference struct {
	OriginalText string     `json:"original_text"`
	ParsedDate   *time.Time `json:"parsed_date,omitempty"`
	RelativeTime string     `json:"relative_time,omitempty"`
}

var (
	weekdayPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	clockPattern   = regexp.MustCompile(`(?i)\b(?:at|by|around)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b|\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b|\b\d{1,2}\s*o'?clock\b`)
	datePattern    = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b|\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b`)

	vagueTerms = []string{"soon", "later", "eventually", "sometime", "at some point", "when possible", "before", "after"}
)

// IsSpecific reports whether the reference names a concrete point in time
// rather than a vague adverbial.
func (t TimeReference) IsSpecific() bool {
	if t.ParsedDate != nil {
		return true
	}
	lower := strings.ToLower(t.OriginalText)
	for _, term := range vagueTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return weekdayPattern.MatchString(lower) || clockPattern.MatchString(lower) || datePattern.MatchString(lower)
}

// ReminderItem is a single extracted reminder. It carries no identity beyond
// its structure; repeated extraction of the same text yields equal items.
type ReminderItem struct {
	Text          string        `json:"text"`
	TimeReference TimeReference `json:"time_reference"`
	Urgency       Urgency       `json:"urgency"`
	Confidence    float64       `json:"confidence"` // 0-1
	Strategy      string        `json:"strategy"`   // "explicit", "time_based", "event_based", "recurring"
}

// NewReminderItem builds a reminder with its confidence clamped to [0,1].
func NewReminderItem(text string, ref TimeReference, urgency Urgency, confidence float64, strategy string) ReminderItem {
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return ReminderItem{
		Text:          text,
		TimeReference: ref,
		Urgency:       urgency,
		Confidence:    confidence,
		Strategy:      strategy,
	}
}

// NewBatch wraps extracted reminders with a storage identity.
func NewBatch(source string, extractedAt time.Time, reminders []ReminderItem) Batch {
	return Batch{
		ID:          uuid.NewString(),
		Source:      source,
		ExtractedAt: extractedAt,
		Reminders:   reminders,
	}
}

// Batch groups the reminders extracted from one transcript.
type Batch struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"` // "api", "cli", "trigger"
	ExtractedAt time.Time      `json:"extracted_at"`
	Reminders   []ReminderItem `json:"reminders"`
}

// Digest is a periodic report over stored reminder batches.
type Digest struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Period         string         `json:"period"` // "daily" or "weekly"
	TotalReminders int            `json:"total_reminders"`
	Reminders      []ReminderItem `json:"reminders"`
	Summary        map[string]int `json:"summary"` // counts per urgency tier
}

// Alert is an immediate notification for an urgent reminder.
type Alert struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Reminder  *ReminderItem `json:"reminder,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
