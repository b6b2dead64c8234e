package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/danielpatrickdp/emostate/internal/generation"
	"github.com/danielpatrickdp/emostate/internal/persistence"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// #region fake-generator

type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	panicMsg string
	healthy  bool
	requests []generation.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeGenerator) Healthy(context.Context) bool { return f.healthy }

func (f *fakeGenerator) lastRequest() generation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// #endregion

// #region fake-store

type fakeStore struct {
	mu         sync.Mutex
	saved      []persistence.TurnRecord
	briefs     map[states.StateID]string
	briefCalls int
	healthy    bool

	// when set, StateBrief and SaveTurn block until it is closed
	release chan struct{}
}

func (f *fakeStore) wait(ctx context.Context) error {
	if f.release == nil {
		return nil
	}
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeStore) SaveTurn(ctx context.Context, rec persistence.TurnRecord) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeStore) SessionHistory(_ context.Context, sessionID string, limit int) ([]persistence.TurnRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []persistence.TurnRecord
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].SessionID == sessionID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeStore) StateBrief(ctx context.Context, id states.StateID) (string, bool, error) {
	f.mu.Lock()
	f.briefCalls++
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.briefs[id]
	return b, ok, nil
}

func (f *fakeStore) AllStateBriefs(context.Context) (map[states.StateID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[states.StateID]string, len(f.briefs))
	for k, v := range f.briefs {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Healthy(context.Context) bool { return f.healthy }

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) savedTurns() []persistence.TurnRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]persistence.TurnRecord(nil), f.saved...)
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.briefCalls
}

// #endregion

// #region clock

// stepClock advances one second per reading so stored turns order strictly.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// #endregion
