package orchestrator

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/generation"
	"github.com/danielpatrickdp/emostate/internal/logging"
	"github.com/danielpatrickdp/emostate/internal/metrics"
	"github.com/danielpatrickdp/emostate/internal/persistence"
	"github.com/danielpatrickdp/emostate/internal/session"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// #endregion

// #region orchestrator-struct

// Orchestrator runs turns: classification, metadata resolution, history,
// generation, persistence and the session cache.
//
// The metadata cache is shared by all sessions and only ever gains
// entries. Each session's history list is appended to by that session's
// turns only; concurrent turns of one session are not ordered.
type Orchestrator struct {
	classifier *classifier.Classifier
	generator  generation.Service
	store      persistence.Store
	sessions   session.Store
	log        *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	cfg        Config

	cache  *cache.Cache
	flight singleflight.Group
	steps  []metaStep

	pending sync.WaitGroup
}

// #endregion

// #region constructor

// New wires an orchestrator. Zero Config fields take DefaultConfig values.
func New(deps Deps, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = def.GenerationTimeout
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = def.PersistTimeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}

	o := &Orchestrator{
		classifier: deps.Classifier,
		generator:  deps.Generator,
		store:      deps.Store,
		sessions:   deps.Sessions,
		log:        logging.OrNop(deps.Logger).Named("orch"),
		metrics:    deps.Metrics,
		now:        deps.Now,
		cfg:        cfg,
		cache:      cache.New(cache.NoExpiration, 0),
	}
	if o.classifier == nil {
		o.classifier = classifier.Default()
	}
	if o.generator == nil {
		o.generator = generation.Disabled{}
	}
	if o.store == nil {
		o.store = persistence.Unavailable{}
	}
	if o.sessions == nil {
		o.sessions = session.NewMemoryStore(session.MaxHistory, 0)
	}
	if o.now == nil {
		o.now = time.Now
	}
	o.steps = o.metaSteps()
	return o
}

// #endregion

// #region process-turn

// ProcessTurn runs one turn. It never returns an error: failures come back
// as a response with Success false.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (resp TurnResponse) {
	start := o.now()
	sessionID := req.SessionID

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("turn panicked", zap.String("session_id", sessionID), zap.Any("panic", r))
			resp = o.errorResponse(sessionID, req.UserMessage, fmt.Errorf("internal error: %v", r))
		}
	}()

	// START
	if sessionID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return o.errorResponse("", req.UserMessage, fmt.Errorf("generate session id: %w", err))
		}
		sessionID = id.String()
	}

	// CLASSIFIED
	var (
		result   classifier.Result
		analysis classifier.Analysis
	)
	var g errgroup.Group
	g.Go(guard(func() { result = o.classifier.Explain(req.UserMessage) }))
	g.Go(guard(func() { analysis = classifier.Analyze(req.UserMessage) }))
	if err := g.Wait(); err != nil {
		return o.errorResponse(sessionID, req.UserMessage, err)
	}
	stateID := result.State

	// METADATA_RESOLVED
	meta, source := o.resolveMeta(ctx, stateID)

	// HISTORY_LOADED
	history, historyTurns := o.loadHistory(ctx, sessionID)

	// GENERATED
	bundle := generation.Bundle{
		Caller:    req.Context,
		History:   history,
		Analysis:  analysis,
		SessionID: sessionID,
	}
	reply, fellBack := o.generate(ctx, generation.Request{
		Message:   req.UserMessage,
		StateID:   stateID,
		StateName: meta.Name,
		Context:   bundle,
	})

	// PERSISTED
	now := o.now()
	o.persist(ctx, persistence.TurnRecord{
		SessionID:      sessionID,
		Timestamp:      now,
		UserMessage:    req.UserMessage,
		StateID:        stateID,
		StateName:      meta.Name,
		Response:       reply,
		Context:        o.encodeContext(bundle),
		MessageLength:  len([]rune(req.UserMessage)),
		ResponseLength: len([]rune(reply)),
	})

	// DONE
	if err := o.sessions.Append(ctx, sessionID, session.Summary{
		Timestamp: now,
		StateID:   stateID,
		StateName: meta.Name,
	}); err != nil {
		o.log.Warn("session append failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	elapsed := o.now().Sub(start)
	o.metrics.ObserveTurn(int(stateID), elapsed)
	o.log.Info("turn processed", zap.Object("turn", logging.TurnEntry{
		SessionID:      sessionID,
		StateID:        int(stateID),
		StateName:      meta.Name,
		Rule:           string(result.Rule),
		MetadataSource: source,
		HistoryTurns:   historyTurns,
		Fallback:       fellBack,
		Duration:       elapsed,
	}))

	return TurnResponse{
		SessionID:       sessionID,
		Timestamp:       now,
		UserMessage:     req.UserMessage,
		DetectedState:   meta,
		Response:        reply,
		ContextAnalysis: &analysis,
		Success:         true,
	}
}

// guard turns a panic in fn into an error so errgroup goroutines stay
// inside the turn's error boundary.
func guard(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("internal error: %v", r)
			}
		}()
		fn()
		return nil
	}
}

// #endregion

// #region generate

// generate calls the generation service under the configured timeout and
// substitutes the state's fallback phrase on any failure.
func (o *Orchestrator) generate(ctx context.Context, req generation.Request) (string, bool) {
	gctx, cancel := context.WithTimeout(ctx, o.cfg.GenerationTimeout)
	defer cancel()

	reply, err := o.generator.Generate(gctx, req)
	if err == nil {
		return reply, false
	}

	reason := "error"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(gctx.Err(), context.DeadlineExceeded) {
		reason = "timeout"
	}
	o.metrics.GenerationFallback(reason)
	o.log.Warn("generation failed, using fallback",
		zap.String("session_id", req.Context.SessionID),
		zap.Int("state_id", int(req.StateID)),
		zap.String("reason", reason),
		zap.Error(err))
	return generation.Fallback(req.StateID), true
}

// #endregion

// #region persist

// persist saves rec in the background. The caller's cancellation does not
// reach the write; only PersistTimeout bounds it.
func (o *Orchestrator) persist(ctx context.Context, rec persistence.TurnRecord) {
	ctx = context.WithoutCancel(ctx)
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, o.cfg.PersistTimeout)
		defer cancel()

		if err := o.store.SaveTurn(ctx, rec); err != nil {
			o.metrics.PersistenceFailure()
			o.log.Warn("persist turn failed", zap.String("session_id", rec.SessionID), zap.Error(err))
		}
	}()
}

func (o *Orchestrator) encodeContext(b generation.Bundle) string {
	raw, err := json.Marshal(b)
	if err != nil {
		o.log.Debug("context not serializable", zap.Error(err))
		return ""
	}
	return string(raw)
}

// #endregion

// #region error-response

func (o *Orchestrator) errorResponse(sessionID, message string, err error) TurnResponse {
	o.metrics.ErrorResponse()
	o.log.Error("turn failed", zap.String("session_id", sessionID), zap.Error(err))
	return TurnResponse{
		SessionID:        sessionID,
		Timestamp:        o.now(),
		UserMessage:      message,
		DetectedState:    states.Placeholder(),
		Success:          false,
		Error:            err.Error(),
		FallbackResponse: Apology,
	}
}

// #endregion

// #region session-summary

// SessionSummary reports on the session's cached turns. It returns
// session.ErrNotFound for a session without turns.
func (o *Orchestrator) SessionSummary(ctx context.Context, sessionID string) (session.Report, error) {
	hist, err := o.sessions.History(ctx, sessionID)
	if err != nil {
		return session.Report{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return session.Summarize(sessionID, hist)
}

// #endregion

// #region health

// Health probes both collaborators concurrently.
func (o *Orchestrator) Health(ctx context.Context) HealthReport {
	var rep HealthReport
	var g errgroup.Group
	g.Go(func() error {
		gctx, cancel := context.WithTimeout(ctx, o.cfg.GenerationTimeout)
		defer cancel()
		rep.Generation = o.generator.Healthy(gctx)
		return nil
	})
	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, o.cfg.PersistTimeout)
		defer cancel()
		rep.Persistence = o.store.Healthy(sctx)
		return nil
	})
	g.Wait()

	rep.CacheReady = o.cache.ItemCount() > 0
	rep.OverallStatus = rep.Generation && rep.Persistence && rep.CacheReady
	rep.Timestamp = o.now()
	return rep
}

// #endregion

// #region cache-warm

// WarmCache loads every stored state description into the metadata cache
// and returns how many entries were added.
func (o *Orchestrator) WarmCache(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.PersistTimeout)
	defer cancel()

	briefs, err := o.store.AllStateBriefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm cache: %w", err)
	}

	added := 0
	for id, brief := range briefs {
		if !id.Valid() || brief == "" {
			continue
		}
		if o.remember(withBrief(id, brief)) {
			added++
		}
	}
	o.log.Info("metadata cache warmed", zap.Int("added", added), zap.Int("entries", o.cache.ItemCount()))
	return added, nil
}

// Describe returns the metadata of id as a turn would report it: cached,
// then stored, then built in.
func (o *Orchestrator) Describe(ctx context.Context, id states.StateID) states.Meta {
	m, _ := o.resolveMeta(ctx, id)
	return m
}

// States returns the metadata of every catalogued state, preferring cached
// descriptions.
func (o *Orchestrator) States() []states.Meta {
	all := states.All()
	for i, m := range all {
		if cached, ok := o.fromCache(context.Background(), m.ID); ok {
			all[i] = cached
		}
	}
	return all
}

// #endregion

// #region shutdown

// Wait blocks until pending persistence writes finish or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and closes the session store. Collaborators
// passed in Deps other than the session store stay open.
func (o *Orchestrator) Close(ctx context.Context) error {
	werr := o.Wait(ctx)
	if err := o.sessions.Close(); err != nil {
		return errors.Join(werr, fmt.Errorf("close session store: %w", err))
	}
	return werr
}

// #endregion
