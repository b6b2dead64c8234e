package session

import (
	"time"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// Report is the session-summary view of a cached history.
type Report struct {
	SessionID        string                 `json:"session_id"`
	MessageCount     int                    `json:"message_count"`
	MostFrequent     states.StateID         `json:"most_frequent_state"`
	MostFrequentName string                 `json:"most_frequent_state_name"`
	Distribution     map[states.StateID]int `json:"state_distribution"`
	FirstInteraction time.Time              `json:"first_interaction"`
	LastInteraction  time.Time              `json:"last_interaction"`
}

// Summarize aggregates history (oldest first). Ties for the most frequent
// state go to the state that appeared first.
func Summarize(sessionID string, history []Summary) (Report, error) {
	if len(history) == 0 {
		return Report{}, ErrNotFound
	}

	r := Report{
		SessionID:        sessionID,
		MessageCount:     len(history),
		Distribution:     make(map[states.StateID]int),
		FirstInteraction: history[0].Timestamp,
		LastInteraction:  history[len(history)-1].Timestamp,
	}

	var order []states.StateID
	for _, h := range history {
		if r.Distribution[h.StateID] == 0 {
			order = append(order, h.StateID)
		}
		r.Distribution[h.StateID]++
	}

	best := 0
	for _, id := range order {
		if n := r.Distribution[id]; n > best {
			best = n
			r.MostFrequent = id
		}
	}
	for _, h := range history {
		if h.StateID == r.MostFrequent && h.StateName != "" {
			r.MostFrequentName = h.StateName
			break
		}
	}
	if r.MostFrequentName == "" {
		r.MostFrequentName = states.Name(r.MostFrequent)
	}
	return r, nil
}
