package states

import "fmt"

// #region catalog

var catalog = map[StateID]Meta{
	StateOpenness: {
		Name:        "Ouverture / Émerveillement",
		Description: "Disponibilité curieuse à ce qui se présente, sans attente particulière.",
		Advice:      "Laissez la curiosité guider votre prochaine question.",
		Color:       "#4FC3F7",
		Icon:        "🌅",
	},
	StateJoy: {
		Name:        "Joie",
		Description: "Élan lumineux et expansif, plaisir d'être présent.",
		Advice:      "Savourez ce moment et partagez-le si vous le souhaitez.",
		Color:       "#FFD54F",
		Icon:        "☀️",
	},
	StateSadness: {
		Name:        "Tristesse",
		Description: "Mouvement intérieur de perte ou de manque qui demande de la douceur.",
		Advice:      "Accordez-vous du temps et parlez à quelqu'un de confiance.",
		Color:       "#7986CB",
		Icon:        "🌧️",
	},
	StateLove: {
		Name:        "Amour",
		Description: "Attachement chaleureux et ouverture du cœur envers l'autre.",
		Advice:      "Exprimez cette tendresse par un geste simple.",
		Color:       "#F06292",
		Icon:        "💗",
	},
	StateHarmony: {
		Name:        "Harmonie",
		Description: "Sentiment d'équilibre et de paix avec soi et le monde.",
		Advice:      "Respirez profondément pour ancrer cette paix.",
		Color:       "#81C784",
		Icon:        "🕊️",
	},
	StateReflection: {
		Name:        "Réflexion",
		Description: "Temps d'introspection où l'on observe ses pensées.",
		Advice:      "Notez ce qui émerge, sans chercher de conclusion immédiate.",
		Color:       "#90A4AE",
		Icon:        "🪞",
	},
	StateAnger: {
		Name:        "Colère",
		Description: "Énergie de défense face à une limite franchie.",
		Advice:      "Nommez la limite touchée avant d'agir.",
		Color:       "#E57373",
		Icon:        "🔥",
	},
	StateConflict: {
		Name:        "Conflit / Violence",
		Description: "Tension intense tournée vers la confrontation ou la destruction.",
		Advice:      "Éloignez-vous un instant de la situation et ralentissez votre souffle.",
		Color:       "#B71C1C",
		Icon:        "⚡",
	},
	StateInclusion: {
		Name:        "Inclusion / Intégration",
		Description: "Capacité à accueillir ensemble des émotions opposées.",
		Advice:      "Reconnaissez chaque part de vous sans en exclure aucune.",
		Color:       "#BA68C8",
		Icon:        "☯️",
	},
}

// Describe returns the built-in metadata for id. States without a
// hand-written entry get a generic one.
func Describe(id StateID) Meta {
	if m, ok := catalog[id]; ok {
		m.ID = id
		return m
	}
	return Meta{
		ID:          id,
		Name:        fmt.Sprintf("État %d", int(id)),
		Description: fmt.Sprintf("État de conscience n°%d.", int(id)),
		Advice:      "Accueillez ce que vous ressentez, sans jugement.",
		Color:       "#9E9E9E",
		Icon:        "✨",
	}
}

// Name is shorthand for Describe(id).Name.
func Name(id StateID) string {
	return Describe(id).Name
}

// All lists the metadata of every state in the taxonomy, in id order.
func All() []Meta {
	out := make([]Meta, 0, int(MaxState))
	for id := MinState; id <= MaxState; id++ {
		out = append(out, Describe(id))
	}
	return out
}

// #endregion

// #region placeholder

// Placeholder is the fixed state block returned with error responses.
func Placeholder() Meta {
	return Meta{
		ID:          StateReflection,
		Name:        "Réflexion / Pause",
		Description: "Un temps de pause pour accueillir ce qui est là.",
		Advice:      "Prenez un moment pour respirer avant de reformuler.",
		Color:       "#90A4AE",
		Icon:        "⏸️",
	}
}

// #endregion
