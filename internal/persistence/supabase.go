package persistence

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// SupabaseConfig holds Supabase connection configuration.
type SupabaseConfig struct {
	URL         string
	APIKey      string
	TurnsTable  string // Default: "conversations"
	StatesTable string // Default: "consciousness_states"

	// RequestTimeout bounds how long the transport waits for response
	// headers. Default: 10s.
	RequestTimeout time.Duration
}

// SupabaseStore implements Store on top of Supabase's PostgREST API.
type SupabaseStore struct {
	client *postgrest.Client
	turns  string
	states string
}

type stateRow struct {
	StateID     int    `json:"state_id"`
	Description string `json:"description"`
}

// NewSupabaseStore creates a Supabase-backed store.
func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if cfg.TurnsTable == "" {
		cfg.TurnsTable = "conversations"
	}
	if cfg.StatesTable == "" {
		cfg.StatesTable = "consciousness_states"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	// Same headers supabase.NewClient sets; built here so the REST
	// transport can carry a timeout.
	client := postgrest.NewClient(strings.TrimRight(cfg.URL, "/")+supabase.REST_URL, "public", map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"apikey":        cfg.APIKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", client.ClientError)
	}
	client.Transport.Parent = boundedTransport(cfg.RequestTimeout)

	return &SupabaseStore{
		client: client,
		turns:  cfg.TurnsTable,
		states: cfg.StatesTable,
	}, nil
}

// SaveTurn implements Store.
func (s *SupabaseStore) SaveTurn(ctx context.Context, rec TurnRecord) error {
	return withContext(ctx, func() error {
		_, _, err := s.client.From(s.turns).
			Insert(rec, false, "", "minimal", "").
			Execute()
		if err != nil {
			return fmt.Errorf("failed to save turn: %w", err)
		}
		return nil
	})
}

// SessionHistory implements Store.
func (s *SupabaseStore) SessionHistory(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	var rows []TurnRecord
	err := withContext(ctx, func() error {
		_, err := s.client.From(s.turns).
			Select("*", "", false).
			Eq("session_id", sessionID).
			Order("timestamp", &postgrest.OrderOpts{Ascending: false}).
			Limit(limit, "").
			ExecuteTo(&rows)
		if err != nil {
			return fmt.Errorf("failed to get session history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// StateBrief implements Store.
func (s *SupabaseStore) StateBrief(ctx context.Context, id states.StateID) (string, bool, error) {
	var rows []stateRow
	err := withContext(ctx, func() error {
		_, err := s.client.From(s.states).
			Select("state_id,description", "", false).
			Eq("state_id", strconv.Itoa(int(id))).
			Limit(1, "").
			ExecuteTo(&rows)
		if err != nil {
			return fmt.Errorf("failed to get state brief: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 || rows[0].Description == "" {
		return "", false, nil
	}
	return rows[0].Description, true, nil
}

// AllStateBriefs implements Store.
func (s *SupabaseStore) AllStateBriefs(ctx context.Context) (map[states.StateID]string, error) {
	var rows []stateRow
	err := withContext(ctx, func() error {
		_, err := s.client.From(s.states).
			Select("state_id,description", "", false).
			ExecuteTo(&rows)
		if err != nil {
			return fmt.Errorf("failed to get state briefs: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[states.StateID]string, len(rows))
	for _, r := range rows {
		out[states.StateID(r.StateID)] = r.Description
	}
	return out, nil
}

// Healthy implements Store.
func (s *SupabaseStore) Healthy(ctx context.Context) bool {
	err := withContext(ctx, func() error {
		_, _, err := s.client.From(s.states).
			Select("state_id", "", false).
			Limit(1, "").
			Execute()
		return err
	})
	return err == nil
}

// Close implements Store.
func (s *SupabaseStore) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// boundedTransport fails a request whose server stalls before answering,
// so calls abandoned by withContext do not hold a goroutine forever.
func boundedTransport(timeout time.Duration) http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = timeout
	return t
}

// withContext bounds a blocking PostgREST call by ctx. The postgrest client
// takes no context, so a call abandoned on timeout finishes in the background
// within the transport's RequestTimeout.
func withContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Store = (*SupabaseStore)(nil)
