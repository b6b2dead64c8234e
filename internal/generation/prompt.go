package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// #region system-prompt

const systemTemplate = `Tu es un compagnon d'écoute bienveillant qui répond en français.
L'état émotionnel détecté chez l'utilisateur est « %s » (état %d).
Réponds en deux ou trois phrases, avec chaleur et sans jugement.
Ne pose jamais de diagnostic et n'invente pas de faits sur la personne.`

// SystemPrompt frames the reply around the detected state.
func SystemPrompt(req Request) string {
	return fmt.Sprintf(systemTemplate, req.StateName, int(req.StateID))
}

// #endregion

// #region user-prompt

// UserPrompt renders the message with its enriched context.
func UserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Historique récent : ")
	b.WriteString(req.Context.History)
	b.WriteString("\n")

	a := req.Context.Analysis
	fmt.Fprintf(&b, "Analyse : émotion dominante=%s, intensité=%s", a.DominantEmotion, a.Intensity)
	if a.Contradiction {
		b.WriteString(", émotions contradictoires")
	}
	b.WriteString("\n")

	if len(req.Context.Caller) > 0 {
		if raw, err := json.Marshal(req.Context.Caller); err == nil {
			b.WriteString("Contexte fourni : ")
			b.Write(raw)
			b.WriteString("\n")
		}
	}

	b.WriteString("Message : ")
	b.WriteString(req.Message)
	return b.String()
}

// #endregion
