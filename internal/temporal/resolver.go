// Package temporal resolves natural-language time expressions in a sentence
// into a normalized TimeReference.
package temporal

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/models"
)

// relativeRule maps a fixed phrase to a calendar-arithmetic rule and label.
// Rules are tried in declared order; the first matching phrase wins.
type relativeRule struct {
	phrase string
	label  string
	apply  func(now time.Time) time.Time
}

var relativeRules = []relativeRule{
	{"today", "Today", func(now time.Time) time.Time { return now }},
	{"tomorrow", "Tomorrow", func(now time.Time) time.Time { return now.AddDate(0, 0, 1) }},
	{"yesterday", "Yesterday", func(now time.Time) time.Time { return now.AddDate(0, 0, -1) }},
	{"next week", "Next week", func(now time.Time) time.Time { return now.AddDate(0, 0, 7) }},
	{"this week", "This week", func(now time.Time) time.Time { return now }},
	{"next month", "Next month", func(now time.Time) time.Time { return now.AddDate(0, 1, 0) }},
	{"this month", "This month", func(now time.Time) time.Time { return now }},
	{"in an hour", "In 1 hour", func(now time.Time) time.Time { return now.Add(time.Hour) }},
	{"in two hours", "In 2 hours", func(now time.Time) time.Time { return now.Add(2 * time.Hour) }},
	{"in 30 minutes", "In 30 minutes", func(now time.Time) time.Time { return now.Add(30 * time.Minute) }},
}

var weekdayRules = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var dayPartPhrases = []string{
	"this morning",
	"this afternoon",
	"this evening",
	"tonight",
	"tomorrow morning",
	"tomorrow afternoon",
	"tomorrow evening",
	"tomorrow night",
	"in the morning",
	"in the evening",
	"at night",
}

var vaguePhrases = []string{
	"soon", "later", "eventually", "sometime", "at some point", "when possible", "before", "after",
}

var (
	clockPhrasePattern = regexp.MustCompile(`(?i)\b(?:at|by|around)\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b|\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b|\b\d{1,2}\s*o'?clock\b`)
	monthNamePattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\b`)
)

// Resolver converts a sentence into a TimeReference. It reads the clock once
// per resolution so that all deltas computed for a sentence are consistent.
type Resolver struct {
	clock  clock.Clock
	parser *when.Parser
}

// NewResolver builds a resolver around the given clock.
func NewResolver(c clock.Clock) *Resolver {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &Resolver{clock: c, parser: parser}
}

// Resolve produces exactly one TimeReference for the sentence, trying
// strategies in fixed priority order: absolute date/time detection, relative
// phrases, weekday phrases, time-of-day phrases, vague fallback.
func (r *Resolver) Resolve(sentence string) models.TimeReference {
	now := r.clock.Now()

	if ref, ok := r.resolveAbsolute(sentence, now); ok {
		return ref
	}
	if ref, ok := resolveRelative(sentence, now); ok {
		return ref
	}
	if ref, ok := resolveWeekday(sentence, now); ok {
		return ref
	}
	if ref, ok := resolveTimeOfDay(sentence); ok {
		return ref
	}
	return resolveVague(sentence)
}

// resolveAbsolute runs the calendar-aware phrase detector. A match is only
// accepted when the detected phrase is concrete (contains a digit or a month
// name); bare relative words fall through to the fixed tables so their labels
// stay stable.
func (r *Resolver) resolveAbsolute(sentence string, now time.Time) (models.TimeReference, bool) {
	result, err := r.parser.Parse(sentence, now)
	if err != nil {
		logrus.Debugf("date phrase detection failed: %v", err)
		return models.TimeReference{}, false
	}
	if result == nil || !concretePhrase(result.Text) || shadowedByTable(result.Text) {
		return models.TimeReference{}, false
	}

	parsed := result.Time
	original := "Scheduled time"
	if match := clockPhrasePattern.FindString(sentence); match != "" {
		original = strings.ToLower(strings.TrimSpace(match))
	}

	return models.TimeReference{
		OriginalText: original,
		ParsedDate:   &parsed,
		RelativeTime: formatRelative(parsed, now),
	}, true
}

func resolveRelative(sentence string, now time.Time) (models.TimeReference, bool) {
	lower := strings.ToLower(sentence)
	for _, rule := range relativeRules {
		if strings.Contains(lower, rule.phrase) {
			parsed := rule.apply(now)
			return models.TimeReference{
				OriginalText: rule.phrase,
				ParsedDate:   &parsed,
				RelativeTime: rule.label,
			}, true
		}
	}
	return models.TimeReference{}, false
}

func resolveWeekday(sentence string, now time.Time) (models.TimeReference, bool) {
	lower := strings.ToLower(sentence)
	for _, rule := range weekdayRules {
		if !strings.Contains(lower, rule.name) {
			continue
		}
		next := clock.NextWeekday(now, rule.day)
		name := capitalize(rule.name)
		label := "Next " + name
		if clock.SameISOWeek(next, now) {
			label = "This " + name
		}
		return models.TimeReference{
			OriginalText: name,
			ParsedDate:   &next,
			RelativeTime: label,
		}, true
	}
	return models.TimeReference{}, false
}

func resolveTimeOfDay(sentence string) (models.TimeReference, bool) {
	lower := strings.ToLower(sentence)
	for _, phrase := range dayPartPhrases {
		if strings.Contains(lower, phrase) {
			return models.TimeReference{OriginalText: phrase, RelativeTime: phrase}, true
		}
	}
	if match := clockPhrasePattern.FindString(sentence); match != "" {
		normalized := strings.ToLower(strings.TrimSpace(match))
		return models.TimeReference{OriginalText: normalized, RelativeTime: normalized}, true
	}
	return models.TimeReference{}, false
}

func resolveVague(sentence string) models.TimeReference {
	lower := strings.ToLower(sentence)
	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			return models.TimeReference{OriginalText: phrase}
		}
	}
	return models.TimeReference{OriginalText: models.NoSpecificTime}
}

// formatRelative renders a human-readable label for the distance between an
// absolute timestamp and now.
func formatRelative(t, now time.Time) string {
	delta := t.Sub(now)
	switch {
	case delta < time.Minute:
		return "Now"
	case delta < time.Hour:
		return pluralize(int(delta.Minutes()), "minute")
	case delta < 24*time.Hour:
		return pluralize(int(delta.Hours()), "hour")
	case delta < 7*24*time.Hour:
		return pluralize(int(delta.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("In 1 %s", unit)
	}
	return fmt.Sprintf("In %d %ss", n, unit)
}

// concretePhrase reports whether a detected phrase names an actual calendar
// point, as opposed to a bare relative word like "tomorrow".
func concretePhrase(s string) bool {
	return strings.ContainsAny(s, "0123456789") || monthNamePattern.MatchString(s)
}

// shadowedByTable reports whether the detected phrase is one of the fixed
// relative phrases, which carry their own labels and arithmetic.
func shadowedByTable(s string) bool {
	lower := strings.TrimSpace(strings.ToLower(s))
	for _, rule := range relativeRules {
		if lower == rule.phrase {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
