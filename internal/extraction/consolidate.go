package extraction

import (
	"strings"
	"unicode"

	"github.com/voxnote/reminders-bot/internal/models"
)

// Jaccard similarity above this value marks two candidates as duplicates.
const similarityThreshold = 0.7

// Consolidate merges near-duplicate candidates in a single pass over the
// original order. Each unprocessed item collects the later unprocessed items
// similar to it; groups of size one pass through unchanged, larger groups are
// merged into a new item.
func Consolidate(items []models.ReminderItem) []models.ReminderItem {
	if len(items) <= 1 {
		return items
	}

	processed := make([]bool, len(items))
	out := make([]models.ReminderItem, 0, len(items))

	for i := range items {
		if processed[i] {
			continue
		}
		processed[i] = true

		group := []models.ReminderItem{items[i]}
		for j := i + 1; j < len(items); j++ {
			if processed[j] {
				continue
			}
			if similar(items[i], items[j]) {
				processed[j] = true
				group = append(group, items[j])
			}
		}

		if len(group) == 1 {
			out = append(out, items[i])
			continue
		}
		out = append(out, mergeGroup(group))
	}

	return out
}

// similar reports whether two candidates describe the same reminder: token
// sets overlapping above the threshold, or identical original time phrases.
func similar(a, b models.ReminderItem) bool {
	if strings.EqualFold(a.TimeReference.OriginalText, b.TimeReference.OriginalText) {
		return true
	}
	return jaccard(tokenize(a.Text), tokenize(b.Text)) > similarityThreshold
}

// mergeGroup folds a group into one reminder: the highest-confidence text,
// the most urgent tier, the most specific time reference, and the mean
// confidence. All ties resolve to the first occurrence.
func mergeGroup(group []models.ReminderItem) models.ReminderItem {
	best := group[0]
	urgency := group[0].Urgency
	ref := group[0].TimeReference
	sum := 0.0

	for i, item := range group {
		sum += item.Confidence
		if item.Confidence > best.Confidence {
			best = item
		}
		if item.Urgency.SortOrder() < urgency.SortOrder() {
			urgency = item.Urgency
		}
		if i > 0 && !ref.IsSpecific() && item.TimeReference.IsSpecific() {
			ref = item.TimeReference
		}
	}

	return models.NewReminderItem(best.Text, ref, urgency, sum/float64(len(group)), best.Strategy)
}

func tokenize(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
