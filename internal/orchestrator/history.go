package orchestrator

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/persistence"
)

// loadHistory returns the context string of the session's last turns and
// how many turns it covers. Any store failure yields NoHistory.
func (o *Orchestrator) loadHistory(ctx context.Context, sessionID string) (string, int) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.PersistTimeout)
	defer cancel()

	recs, err := o.store.SessionHistory(ctx, sessionID, o.cfg.HistoryLimit)
	if err != nil {
		o.log.Debug("history unavailable", zap.String("session_id", sessionID), zap.Error(err))
		return NoHistory, 0
	}
	if len(recs) > o.cfg.HistoryLimit {
		recs = recs[:o.cfg.HistoryLimit]
	}
	return formatHistory(recs), len(recs)
}

// formatHistory renders records given most recent first, oldest first.
func formatHistory(recs []persistence.TurnRecord) string {
	if len(recs) == 0 {
		return NoHistory
	}
	parts := make([]string, 0, len(recs))
	for _, r := range slices.Backward(recs) {
		parts = append(parts, r.StateName+": "+snippet(r.UserMessage))
	}
	return strings.Join(parts, historySeparator)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= snippetLength {
		return s
	}
	return string(r[:snippetLength])
}
