package generation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatServer struct {
	content string
	status  int
	delay   time.Duration
	body    map[string]any
}

func (c *chatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if c.status != 0 {
		w.WriteHeader(c.status)
		io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/chat/completions":
		json.NewDecoder(r.Body).Decode(&c.body)
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "mistral-small-latest",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": c.content},
			}},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/models/mistral-small-latest":
		io.WriteString(w, `{"id":"mistral-small-latest","object":"model","created":1,"owned_by":"mistralai"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"message":"not found"}}`)
	}
}

func newOpenAI(t *testing.T, h http.Handler) *OpenAIService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := NewOpenAIService(OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/",
		Model:       "mistral-small-latest",
		Temperature: 0.7,
		MaxTokens:   150,
	})
	require.NoError(t, err)
	return s
}

func TestNewOpenAIServiceValidation(t *testing.T) {
	_, err := NewOpenAIService(OpenAIConfig{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAIService(OpenAIConfig{APIKey: "k"})
	assert.Error(t, err)
}

func TestOpenAIGenerate(t *testing.T) {
	h := &chatServer{content: "  Je vous entends.  "}
	s := newOpenAI(t, h)

	got, err := s.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Je vous entends.", got)

	assert.Equal(t, "mistral-small-latest", h.body["model"])
	assert.EqualValues(t, 150, h.body["max_tokens"])
	msgs, ok := h.body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestOpenAIFailures(t *testing.T) {
	t.Run("empty reply", func(t *testing.T) {
		s := newOpenAI(t, &chatServer{content: "   "})
		_, err := s.Generate(context.Background(), sampleRequest())
		assert.True(t, errors.Is(err, ErrEmptyReply), "got %v", err)
	})

	t.Run("server error", func(t *testing.T) {
		s := newOpenAI(t, &chatServer{status: http.StatusInternalServerError})
		_, err := s.Generate(context.Background(), sampleRequest())
		assert.Error(t, err)
		assert.False(t, s.Healthy(context.Background()))
	})

	t.Run("timeout", func(t *testing.T) {
		s := newOpenAI(t, &chatServer{content: "tard", delay: time.Second})
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := s.Generate(ctx, sampleRequest())
		assert.Error(t, err)
	})
}

func TestOpenAIHealthy(t *testing.T) {
	s := newOpenAI(t, &chatServer{content: "ok"})
	assert.True(t, s.Healthy(context.Background()))
}
