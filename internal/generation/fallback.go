package generation

import "github.com/danielpatrickdp/emostate/internal/states"

// DefaultFallback answers for states without a dedicated phrase.
const DefaultFallback = "Je vous écoute. Pouvez-vous m'en dire un peu plus sur ce que vous ressentez ?"

var fallbacks = map[states.StateID]string{
	states.StateOpenness:   "Bienvenue. Je suis là pour vous écouter, prenez le temps qu'il vous faut.",
	states.StateJoy:        "Votre joie se ressent dans vos mots. Qu'est-ce qui la nourrit en ce moment ?",
	states.StateSadness:    "Je perçois de la tristesse. Vous n'êtes pas seul avec ce que vous traversez.",
	states.StateLove:       "Il y a beaucoup de tendresse dans ce que vous partagez. Merci de la confier.",
	states.StateHarmony:    "Cette paix intérieure est précieuse. Prenez un instant pour la savourer.",
	states.StateReflection: "C'est une belle question. Qu'est-ce qui vous amène à y penser aujourd'hui ?",
	states.StateAnger:      "Votre colère est légitime. Qu'est-ce qui l'a déclenchée ?",
	states.StateConflict:   "Je sens une forte tension. Respirons un instant avant d'aller plus loin.",
	states.StateInclusion:  "Il est possible d'accueillir à la fois l'amour et la colère. Les deux font partie de vous.",
}

// Fallback returns the static reply used when generation fails for id.
func Fallback(id states.StateID) string {
	if s, ok := fallbacks[id]; ok {
		return s
	}
	return DefaultFallback
}
