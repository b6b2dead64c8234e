package generation

import (
	"context"
	"errors"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// #region request

// Bundle is the enriched context sent along with a message.
type Bundle struct {
	Caller    map[string]any      `json:"caller,omitempty"`
	History   string              `json:"history"`
	Analysis  classifier.Analysis `json:"analysis"`
	SessionID string              `json:"session_id"`
}

// Request is one generation call.
type Request struct {
	Message   string
	StateID   states.StateID
	StateName string
	Context   Bundle
}

// #endregion

// #region service

// Service produces a short reply for a classified message.
type Service interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Healthy is a synchronous availability probe.
	Healthy(ctx context.Context) bool
}

// #endregion

// #region errors

var (
	// ErrEmptyReply is returned when a provider answers without any text.
	ErrEmptyReply = errors.New("empty generation reply")
	// ErrUnavailable is returned by Disabled.
	ErrUnavailable = errors.New("generation service not configured")
)

// #endregion

// Disabled is the Service used when no provider is configured. Every turn
// then receives its state's fallback phrase.
type Disabled struct{}

func (Disabled) Generate(context.Context, Request) (string, error) { return "", ErrUnavailable }

func (Disabled) Healthy(context.Context) bool { return false }
