package orchestrator

// #region imports
import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/generation"
	"github.com/danielpatrickdp/emostate/internal/metrics"
	"github.com/danielpatrickdp/emostate/internal/persistence"
	"github.com/danielpatrickdp/emostate/internal/session"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// #endregion

// #region constants

const (
	// NoHistory stands in for the history of a session without prior turns.
	NoHistory = "Aucune interaction précédente"

	// Apology is the fallback_response of every error response.
	Apology = "Désolé, je rencontre une difficulté technique. Pouvez-vous reformuler votre message ?"

	historySeparator = " | "
	snippetLength    = 100
)

// Metadata resolution steps, in resolution order.
const (
	SourceCache  = "cache"
	SourceStore  = "store"
	SourceStatic = "static"
)

// #endregion

// #region turn-request

// TurnRequest is one incoming user message.
type TurnRequest struct {
	UserMessage string         `json:"user_message"`
	SessionID   string         `json:"session_id,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// UnmarshalJSON accepts any JSON value in each field. A user_message that
// is not a string becomes "" and classifies to the default state; a
// context that is not an object is dropped.
func (r *TurnRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserMessage any `json:"user_message"`
		SessionID   any `json:"session_id"`
		Context     any `json:"context"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.UserMessage = classifier.Normalize(raw.UserMessage)
	r.SessionID = classifier.Normalize(raw.SessionID)
	r.Context, _ = raw.Context.(map[string]any)
	return nil
}

// #endregion

// #region turn-response

// TurnResponse is always well formed: on failure Success is false and
// DetectedState carries the placeholder state.
type TurnResponse struct {
	SessionID        string               `json:"session_id"`
	Timestamp        time.Time            `json:"timestamp"`
	UserMessage      string               `json:"user_message"`
	DetectedState    states.Meta          `json:"detected_state"`
	Response         string               `json:"response,omitempty"`
	ContextAnalysis  *classifier.Analysis `json:"context_analysis,omitempty"`
	Success          bool                 `json:"success"`
	Error            string               `json:"error,omitempty"`
	FallbackResponse string               `json:"fallback_response,omitempty"`
}

// #endregion

// #region health-report

// HealthReport aggregates the collaborators' probes.
type HealthReport struct {
	OverallStatus bool      `json:"overall_status"`
	Generation    bool      `json:"generation_service"`
	Persistence   bool      `json:"persistence_store"`
	CacheReady    bool      `json:"metadata_cache"`
	Timestamp     time.Time `json:"timestamp"`
}

// #endregion

// #region deps-config

// Deps are the collaborators of an Orchestrator. Nil fields get a
// working default: the built-in classifier, a disabled generator, an
// unavailable store, an in-memory session store and a no-op logger.
type Deps struct {
	Classifier *classifier.Classifier
	Generator  generation.Service
	Store      persistence.Store
	Sessions   session.Store
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// Config bounds the blocking calls of a turn.
type Config struct {
	GenerationTimeout time.Duration
	PersistTimeout    time.Duration
	HistoryLimit      int
}

// DefaultConfig returns the production timeouts.
func DefaultConfig() Config {
	return Config{
		GenerationTimeout: 15 * time.Second,
		PersistTimeout:    10 * time.Second,
		HistoryLimit:      3,
	}
}

// #endregion
