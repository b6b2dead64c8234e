package session

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/emostate/internal/states"
)

func TestSummarize(t *testing.T) {
	history := []Summary{
		summaryAt(0, states.StateLove),
		summaryAt(1, states.StateConflict),
		summaryAt(2, states.StateConflict),
		summaryAt(3, states.StateLove),
		summaryAt(4, states.StateInclusion),
	}

	r, err := Summarize("abc", history)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if r.MessageCount != 5 {
		t.Errorf("count: got %d, want 5", r.MessageCount)
	}
	// Love and conflict tie at 2; love appeared first.
	if r.MostFrequent != states.StateLove || r.MostFrequentName != "Amour" {
		t.Errorf("most frequent: got %d %q", r.MostFrequent, r.MostFrequentName)
	}
	if r.Distribution[states.StateConflict] != 2 || r.Distribution[states.StateInclusion] != 1 {
		t.Errorf("distribution: got %v", r.Distribution)
	}
	if !r.FirstInteraction.Equal(history[0].Timestamp) || !r.LastInteraction.Equal(history[4].Timestamp) {
		t.Errorf("timestamps: got %v .. %v", r.FirstInteraction, r.LastInteraction)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize("abc", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeMissingName(t *testing.T) {
	r, err := Summarize("abc", []Summary{{StateID: states.StateJoy}})
	if err != nil {
		t.Fatal(err)
	}
	if r.MostFrequentName != "Joie" {
		t.Errorf("name: got %q", r.MostFrequentName)
	}
}
