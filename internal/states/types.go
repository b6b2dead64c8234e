package states

import (
	"errors"
	"fmt"
)

// #region state-id

// StateID identifies one entry of the fixed emotional/consciousness taxonomy.
type StateID int

const (
	MinState StateID = 1
	MaxState StateID = 64
)

// Designated states referenced by the classifier and the error path.
const (
	StateOpenness   StateID = 1
	StateJoy        StateID = 9
	StateSadness    StateID = 17
	StateLove       StateID = 22
	StateHarmony    StateID = 23
	StateReflection StateID = 32
	StateAnger      StateID = 45
	StateConflict   StateID = 46
	StateInclusion  StateID = 64
)

// Valid reports whether id falls inside the taxonomy range.
func (id StateID) Valid() bool {
	return id >= MinState && id <= MaxState
}

func (id StateID) String() string {
	return fmt.Sprintf("state-%d", int(id))
}

// #endregion

// #region lexicon-types

// Pool is the strong trigger set of a single state.
type Pool struct {
	State StateID  `yaml:"state" json:"state"`
	Words []string `yaml:"words" json:"words"`
}

// Lexicon holds the ordered strong pools, the shared weak pool and the
// decision lists the classifier consults. Strong pools are scanned in slice
// order; the first pool containing a token claims it.
type Lexicon struct {
	Strong   []Pool    `yaml:"strong" json:"strong"`
	Weak     []string  `yaml:"weak" json:"weak"`
	Violence []StateID `yaml:"violence" json:"violence"`
	Love     []StateID `yaml:"love" json:"love"`
	Priority []StateID `yaml:"priority" json:"priority"`

	Inclusion StateID `yaml:"inclusion" json:"inclusion"`
	Neutral   StateID `yaml:"neutral" json:"neutral"`
	Fallback  StateID `yaml:"fallback" json:"fallback"`
}

// #endregion

// #region meta

// Meta is the display metadata attached to a detected state.
type Meta struct {
	ID          StateID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Advice      string  `json:"advice"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
}

// #endregion

// #region errors

// ErrInvalidLexicon is wrapped by every lexicon validation failure.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// #endregion
