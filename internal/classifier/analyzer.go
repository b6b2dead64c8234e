package classifier

import "strings"

// #region types

// Emotion is the dominant affect label of a message.
type Emotion string

const (
	EmotionContradiction Emotion = "contradiction"
	EmotionViolence      Emotion = "violence"
	EmotionLove          Emotion = "love"
	EmotionNeutral       Emotion = "neutral"
)

// Intensity is a coarse strength label.
type Intensity string

const (
	IntensityStrong   Intensity = "strong"
	IntensityModerate Intensity = "moderate"
	IntensityLow      Intensity = "low"
)

// Analysis is advisory context for the generation prompt. It never feeds
// back into classification.
type Analysis struct {
	Violence        bool      `json:"violence"`
	Love            bool      `json:"love"`
	Contradiction   bool      `json:"contradiction"`
	DominantEmotion Emotion   `json:"dominant_emotion"`
	Intensity       Intensity `json:"intensity"`
}

// #endregion

// #region keywords

// Stems, matched by substring so inflections are caught ("frappé", "détestait").
var violenceTerms = []string{
	"haine", "hais", "violen", "colère", "guerre", "frapp", "détest", "agress", "furieu",
}

var loveTerms = []string{
	"amour", "aime", "adore", "tendresse", "affection", "câlin", "chéri", "amoureu",
}

// #endregion

// #region analyze

// Analyze derives the coarse emotional flags of message.
func Analyze(message string) Analysis {
	lower := strings.ToLower(message)
	a := Analysis{
		Violence: containsAny(lower, violenceTerms),
		Love:     containsAny(lower, loveTerms),
	}
	a.Contradiction = a.Violence && a.Love

	switch {
	case a.Contradiction:
		a.DominantEmotion = EmotionContradiction
	case a.Violence:
		a.DominantEmotion = EmotionViolence
	case a.Love:
		a.DominantEmotion = EmotionLove
	default:
		a.DominantEmotion = EmotionNeutral
	}

	switch {
	case a.Contradiction || a.Violence:
		a.Intensity = IntensityStrong
	case a.Love:
		a.Intensity = IntensityModerate
	default:
		a.Intensity = IntensityLow
	}
	return a
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// #endregion
