package classifier

// #region imports
import (
	"slices"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// #endregion

// #region types

// Rule names the step of the decision procedure that produced a state.
type Rule string

const (
	RuleContradiction Rule = "contradiction"
	RulePriority      Rule = "priority"
	RuleLexiconOrder  Rule = "lexicon_order"
	RuleWeak          Rule = "weak"
	RuleDefault       Rule = "default"
)

// Result is the full trace of one classification.
type Result struct {
	State    states.StateID         `json:"state"`
	Rule     Rule                   `json:"rule"`
	Scores   map[states.StateID]int `json:"scores"`
	WeakHits []string               `json:"weak_hits,omitempty"`
	Tokens   int                    `json:"tokens"`
}

// Classifier maps a message to a single state using a fixed lexicon.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	idx *states.Index
}

// #endregion

// #region constructor

// New validates lex and builds a classifier over it.
func New(lex states.Lexicon) (*Classifier, error) {
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{idx: states.NewIndex(lex)}, nil
}

var builtin = &Classifier{idx: states.NewIndex(states.Default())}

// Default returns the classifier over the built-in lexicon.
func Default() *Classifier { return builtin }

// Classify runs the built-in classifier.
func Classify(message string) states.StateID {
	return builtin.Classify(message)
}

// #endregion

// #region classify

// Classify returns the state for message.
func (c *Classifier) Classify(message string) states.StateID {
	return c.Explain(message).State
}

// Explain classifies message and reports how the decision was reached.
func (c *Classifier) Explain(message string) Result {
	lex := c.idx.Lexicon()
	tokens := Tokenize(message)
	res := Result{
		Scores: make(map[states.StateID]int),
		Tokens: len(tokens),
	}

	for _, tok := range tokens {
		if id, _, ok := c.idx.Strong(tok); ok {
			res.Scores[id]++
			continue
		}
		if c.idx.Weak(tok) {
			res.WeakHits = append(res.WeakHits, tok)
		}
	}

	if len(res.Scores) == 0 {
		if len(res.WeakHits) > 0 {
			res.State, res.Rule = lex.Neutral, RuleWeak
		} else {
			res.State, res.Rule = lex.Fallback, RuleDefault
		}
		return res
	}

	// Contradiction overrides raw scores.
	if anyScored(res.Scores, lex.Violence) && anyScored(res.Scores, lex.Love) {
		res.State, res.Rule = lex.Inclusion, RuleContradiction
		return res
	}

	best := 0
	for _, n := range res.Scores {
		best = max(best, n)
	}
	top := func(id states.StateID) bool { return res.Scores[id] == best }

	for _, id := range lex.Priority {
		if top(id) {
			res.State, res.Rule = id, RulePriority
			return res
		}
	}

	// Only reachable with a lexicon whose priority list misses a pool;
	// New rejects those.
	for _, p := range lex.Strong {
		if top(p.State) {
			res.State, res.Rule = p.State, RuleLexiconOrder
			return res
		}
	}
	res.State, res.Rule = lex.Fallback, RuleDefault
	return res
}

func anyScored(scores map[states.StateID]int, ids []states.StateID) bool {
	return slices.ContainsFunc(ids, func(id states.StateID) bool { return scores[id] > 0 })
}

// #endregion
