package states

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML lexicon. Designated states left unset fall back to
// the built-in ones. The result is validated before it is returned.
func LoadFile(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML lexicon document.
func Parse(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("decode lexicon: %w", err)
	}

	def := Default()
	if lex.Inclusion == 0 {
		lex.Inclusion = def.Inclusion
	}
	if lex.Neutral == 0 {
		lex.Neutral = def.Neutral
	}
	if lex.Fallback == 0 {
		lex.Fallback = def.Fallback
	}

	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}
	return lex, nil
}
