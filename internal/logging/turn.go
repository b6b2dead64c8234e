package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// #region turn-entry

// TurnEntry records how one turn was decided, for replaying a session from logs.
type TurnEntry struct {
	SessionID      string
	StateID        int
	StateName      string
	Rule           string
	MetadataSource string // "cache" | "store" | "static"
	HistoryTurns   int
	Fallback       bool
	Duration       time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e TurnEntry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("session_id", e.SessionID)
	enc.AddInt("state_id", e.StateID)
	enc.AddString("state_name", e.StateName)
	if e.Rule != "" {
		enc.AddString("rule", e.Rule)
	}
	enc.AddString("metadata_source", e.MetadataSource)
	enc.AddInt("history_turns", e.HistoryTurns)
	enc.AddBool("fallback", e.Fallback)
	enc.AddDuration("duration", e.Duration)
	return nil
}

// #endregion
