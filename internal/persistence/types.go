package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// #region turn-record

// TurnRecord is the durable record of one processed turn. JSON tags double
// as column names for the hosted driver.
type TurnRecord struct {
	ID             string         `json:"id,omitempty"`
	SessionID      string         `json:"session_id"`
	Timestamp      time.Time      `json:"timestamp"`
	UserMessage    string         `json:"user_message"`
	StateID        states.StateID `json:"detected_state_id"`
	StateName      string         `json:"detected_state_name"`
	Response       string         `json:"ai_response"`
	Context        string         `json:"context_data"`
	MessageLength  int            `json:"message_length"`
	ResponseLength int            `json:"response_length"`
}

// #endregion

// #region store-interface

// Store is the durable side of the system: turn history and state briefs.
type Store interface {
	// SaveTurn records one turn.
	SaveTurn(ctx context.Context, rec TurnRecord) error

	// SessionHistory returns up to limit turns of a session, most recent first.
	SessionHistory(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)

	// StateBrief returns the stored description of a state. ok is false when
	// the store has no entry for id.
	StateBrief(ctx context.Context, id states.StateID) (brief string, ok bool, err error)

	// AllStateBriefs returns every stored description.
	AllStateBriefs(ctx context.Context) (map[states.StateID]string, error)

	// Healthy reports whether the store answers a trivial query.
	Healthy(ctx context.Context) bool

	// Close releases the store's resources.
	Close() error
}

// #endregion

// #region errors

// ErrUnavailable is returned by every operation of a store that is not configured.
var ErrUnavailable = errors.New("persistence store unavailable")

// #endregion

// #region unavailable

// Unavailable is the store used when no driver is configured; the
// orchestrator then runs in degraded mode.
type Unavailable struct{}

func (Unavailable) SaveTurn(context.Context, TurnRecord) error { return ErrUnavailable }

func (Unavailable) SessionHistory(context.Context, string, int) ([]TurnRecord, error) {
	return nil, ErrUnavailable
}

func (Unavailable) StateBrief(context.Context, states.StateID) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (Unavailable) AllStateBriefs(context.Context) (map[states.StateID]string, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Healthy(context.Context) bool { return false }

func (Unavailable) Close() error { return nil }

// #endregion
