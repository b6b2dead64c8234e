package session

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// MaxHistory is the number of turn summaries kept per session.
const MaxHistory = 10

// Summary is the compact record of one completed turn.
type Summary struct {
	Timestamp time.Time      `json:"timestamp"`
	StateID   states.StateID `json:"state_id"`
	StateName string         `json:"state_name"`
}

// Store holds the rolling per-session history. It is an advisory cache:
// durable history lives in the persistence store.
type Store interface {
	// Append adds s to the session, evicting the oldest entry past the cap.
	Append(ctx context.Context, sessionID string, s Summary) error

	// History returns the retained summaries, oldest first. An unknown
	// session yields an empty slice, not an error.
	History(ctx context.Context, sessionID string) ([]Summary, error)

	// Close releases the store's resources.
	Close() error
}

// Common errors for session store operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrNotFound         = errors.New("session not found")
)
