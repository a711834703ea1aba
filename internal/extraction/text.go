package extraction

import (
	"strings"
	"unicode"
)

// Connective words that indicate a reminder description still carries a verb
// phrase or object after cleaning.
var connectiveWords = []string{"to", "about", "that", "for", "with", "when"}

// cleanText trims whitespace and trailing punctuation and capitalizes the
// first letter. Trailing punctuation is never re-added.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?,;: ")
	return capitalize(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// stripPhrasePrefix removes everything through the end of the matched phrase
// and cleans the remainder. Falls back to the cleaned sentence when nothing
// remains after the phrase.
func stripPhrasePrefix(sentence, phrase string) string {
	lower := strings.ToLower(sentence)
	idx := strings.Index(lower, phrase)
	if idx < 0 {
		return cleanText(sentence)
	}
	rest := cleanText(sentence[idx+len(phrase):])
	if rest == "" {
		return cleanText(sentence)
	}
	return rest
}

func containsConnective(s string) bool {
	for _, field := range strings.Fields(strings.ToLower(s)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, connective := range connectiveWords {
			if word == connective {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
