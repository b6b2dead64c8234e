package classifier

import (
	"regexp"
	"strings"
)

// wordPattern is a Unicode-aware \w+: letters, digits and underscore.
// Apostrophes and hyphens split words ("l'amour" -> "l", "amour").
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases, trims and splits text into word-boundary tokens.
func Tokenize(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}
	return wordPattern.FindAllString(lower, -1)
}

// Normalize converts an arbitrary decoded input into classifier text.
// Anything that is not a string yields "" and therefore the default state.
func Normalize(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}
