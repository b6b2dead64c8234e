package states

import (
	"fmt"
	"slices"
	"strings"
)

// #region default-lexicon

// Default returns the built-in French lexicon. Only eight states carry
// keywords; the rest of the taxonomy is reachable through a custom lexicon.
func Default() Lexicon {
	return Lexicon{
		Strong: []Pool{
			{State: StateConflict, Words: []string{
				"haine", "hais", "hait", "violence", "violent", "violente",
				"guerre", "frapper", "tuer", "détruire", "battre", "combat",
				"conflit", "agression", "détester", "déteste",
			}},
			{State: StateAnger, Words: []string{
				"colère", "rage", "furieux", "furieuse", "énervé", "énervée",
				"irrité", "irritée", "fâché", "fâchée", "agacé", "agacée",
				"exaspéré", "marre",
			}},
			{State: StateInclusion, Words: []string{
				"inclusion", "intégrer", "intégration", "accueillir", "accepter",
				"ensemble", "unité", "réconcilier", "réconciliation", "dualité",
				"paradoxe", "nuance",
			}},
			{State: StateLove, Words: []string{
				"amour", "aime", "aimer", "adore", "adorer", "tendresse",
				"affection", "chéri", "chérie", "passion", "amoureux", "amoureuse",
			}},
			{State: StateHarmony, Words: []string{
				"harmonie", "paix", "sérénité", "serein", "sereine", "calme",
				"apaisé", "apaisée", "équilibre", "douceur",
			}},
			{State: StateJoy, Words: []string{
				"joie", "heureux", "heureuse", "content", "contente", "rire",
				"sourire", "bonheur", "ravi", "ravie", "enthousiasme", "gai",
			}},
			{State: StateReflection, Words: []string{
				"pense", "penser", "réfléchis", "réfléchir", "réflexion",
				"question", "pourquoi", "comprendre", "doute", "méditer", "observer",
			}},
			{State: StateSadness, Words: []string{
				"triste", "tristesse", "pleure", "pleurer", "chagrin", "mélancolie",
				"seul", "seule", "solitude", "perdu", "perdue", "déprimé", "déprimée", "vide",
			}},
		},
		Weak: []string{
			"bien", "très", "vraiment", "assez", "plutôt", "trop", "mal",
			"ressens", "ressentir", "émotion", "émotions", "sentiment", "sentiments", "humeur",
		},
		Violence: []StateID{StateConflict, StateAnger},
		Love:     []StateID{StateLove, StateHarmony},
		Priority: []StateID{
			StateConflict, StateAnger,
			StateInclusion,
			StateHarmony, StateLove, StateJoy,
			StateReflection, StateSadness,
		},
		Inclusion: StateInclusion,
		Neutral:   StateReflection,
		Fallback:  StateOpenness,
	}
}

// #endregion

// #region validate

// Validate checks the properties the classifier relies on.
func (l Lexicon) Validate() error {
	for _, id := range []StateID{l.Inclusion, l.Neutral, l.Fallback} {
		if !id.Valid() {
			return fmt.Errorf("%w: designated state %d out of range", ErrInvalidLexicon, id)
		}
	}
	if len(l.Violence) == 0 || len(l.Love) == 0 {
		return fmt.Errorf("%w: violence and love subsets must not be empty", ErrInvalidLexicon)
	}

	owner := make(map[string]StateID)
	for _, p := range l.Strong {
		if !p.State.Valid() {
			return fmt.Errorf("%w: pool state %d out of range", ErrInvalidLexicon, p.State)
		}
		if !slices.Contains(l.Priority, p.State) {
			return fmt.Errorf("%w: state %d has keywords but no priority rank", ErrInvalidLexicon, p.State)
		}
		for _, w := range p.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if prev, ok := owner[w]; ok && prev != p.State {
				return fmt.Errorf("%w: %q belongs to states %d and %d", ErrInvalidLexicon, w, prev, p.State)
			}
			owner[w] = p.State
		}
	}
	for _, w := range l.Weak {
		w = strings.ToLower(strings.TrimSpace(w))
		if id, ok := owner[w]; ok {
			return fmt.Errorf("%w: weak word %q also triggers state %d", ErrInvalidLexicon, w, id)
		}
	}
	for _, id := range append(slices.Clone(l.Violence), l.Love...) {
		if !id.Valid() {
			return fmt.Errorf("%w: contradiction state %d out of range", ErrInvalidLexicon, id)
		}
	}
	return nil
}

// #endregion

// #region index

// Index is the lookup form of a Lexicon: every token maps to its pool rank,
// so scanning "pools in order" and "first match wins" become one map hit.
type Index struct {
	lex    Lexicon
	strong map[string]int
	weak   map[string]struct{}
}

// NewIndex builds the lookup tables. Words are lowercased; a word listed in
// several pools keeps the earliest pool.
func NewIndex(l Lexicon) *Index {
	idx := &Index{
		lex:    l,
		strong: make(map[string]int),
		weak:   make(map[string]struct{}, len(l.Weak)),
	}
	for rank, p := range l.Strong {
		for _, w := range p.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if _, seen := idx.strong[w]; !seen {
				idx.strong[w] = rank
			}
		}
	}
	for _, w := range l.Weak {
		idx.weak[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return idx
}

// Lexicon returns the lexicon the index was built from.
func (x *Index) Lexicon() Lexicon { return x.lex }

// Strong returns the state claiming token and its pool rank.
func (x *Index) Strong(token string) (StateID, int, bool) {
	rank, ok := x.strong[token]
	if !ok {
		return 0, 0, false
	}
	return x.lex.Strong[rank].State, rank, true
}

// Weak reports weak-pool membership.
func (x *Index) Weak(token string) bool {
	_, ok := x.weak[token]
	return ok
}

// #endregion
