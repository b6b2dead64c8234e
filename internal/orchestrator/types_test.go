package orchestrator

import (
	"encoding/json"
	"testing"
)

func TestTurnRequestDecodesAnyValue(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantSession string
		wantContext bool
	}{
		{"text", `{"user_message":"je t'aime","session_id":"abc","context":{"k":"v"}}`, "je t'aime", "abc", true},
		{"number", `{"user_message":42}`, "", "", false},
		{"array", `{"user_message":["haine"]}`, "", "", false},
		{"object", `{"user_message":{"text":"haine"}}`, "", "", false},
		{"null", `{"user_message":null}`, "", "", false},
		{"numeric session", `{"user_message":"salut","session_id":7}`, "salut", "", false},
		{"non-object context", `{"user_message":"salut","context":"x"}`, "salut", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TurnRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.UserMessage != tt.wantMessage {
				t.Errorf("UserMessage: got %q, want %q", req.UserMessage, tt.wantMessage)
			}
			if req.SessionID != tt.wantSession {
				t.Errorf("SessionID: got %q, want %q", req.SessionID, tt.wantSession)
			}
			if (req.Context != nil) != tt.wantContext {
				t.Errorf("Context: got %v", req.Context)
			}
		})
	}
}

func TestTurnRequestRejectsNonObject(t *testing.T) {
	var req TurnRequest
	if err := json.Unmarshal([]byte(`["haine"]`), &req); err == nil {
		t.Error("expected error for a top-level array")
	}
}
