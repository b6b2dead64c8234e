package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/states"
)

func sampleRequest() Request {
	msg := "Je ressens de l'amour et de la haine en même temps"
	return Request{
		Message:   msg,
		StateID:   states.StateInclusion,
		StateName: states.Name(states.StateInclusion),
		Context: Bundle{
			Caller:    map[string]any{"mood": "agité"},
			History:   "Joie: bonjour | Colère: laisse-moi",
			Analysis:  classifier.Analyze(msg),
			SessionID: "abc",
		},
	}
}

func TestFallback(t *testing.T) {
	for _, id := range []states.StateID{
		states.StateOpenness, states.StateJoy, states.StateSadness, states.StateLove,
		states.StateHarmony, states.StateReflection, states.StateAnger, states.StateConflict,
		states.StateInclusion,
	} {
		got := Fallback(id)
		if got == "" || got == DefaultFallback {
			t.Errorf("state %d: expected dedicated phrase, got %q", id, got)
		}
	}
	if got := Fallback(5); got != DefaultFallback {
		t.Errorf("unmapped state: got %q", got)
	}
}

func TestPrompts(t *testing.T) {
	req := sampleRequest()

	sys := SystemPrompt(req)
	if !strings.Contains(sys, req.StateName) || !strings.Contains(sys, "64") {
		t.Errorf("system prompt missing state: %q", sys)
	}

	user := UserPrompt(req)
	for _, want := range []string{
		"Joie: bonjour | Colère: laisse-moi",
		"émotion dominante=contradiction",
		"intensité=strong",
		"émotions contradictoires",
		`"mood":"agité"`,
		"Message : " + req.Message,
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}

	req.Context.Caller = nil
	if strings.Contains(UserPrompt(req), "Contexte fourni") {
		t.Error("empty caller context should be omitted")
	}
}

func TestDisabled(t *testing.T) {
	var s Service = Disabled{}
	if _, err := s.Generate(context.Background(), sampleRequest()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if s.Healthy(context.Background()) {
		t.Error("disabled service reported healthy")
	}
}
