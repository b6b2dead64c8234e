package orchestrator

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// #region resolver

// metaStep is one tier of metadata resolution. A step that cannot answer
// returns ok=false and the next step is tried.
type metaStep struct {
	name    string
	resolve func(ctx context.Context, id states.StateID) (states.Meta, bool)
}

func (o *Orchestrator) metaSteps() []metaStep {
	return []metaStep{
		{SourceCache, o.fromCache},
		{SourceStore, o.fromStore},
		{SourceStatic, func(_ context.Context, id states.StateID) (states.Meta, bool) {
			return states.Describe(id), true
		}},
	}
}

// resolveMeta never fails: the static step always answers.
func (o *Orchestrator) resolveMeta(ctx context.Context, id states.StateID) (states.Meta, string) {
	for _, step := range o.steps {
		if m, ok := step.resolve(ctx, id); ok {
			o.metrics.MetadataLookup(step.name)
			return m, step.name
		}
	}
	return states.Describe(id), SourceStatic
}

// #endregion

// #region cache

func cacheKey(id states.StateID) string { return strconv.Itoa(int(id)) }

func (o *Orchestrator) fromCache(_ context.Context, id states.StateID) (states.Meta, bool) {
	v, ok := o.cache.Get(cacheKey(id))
	if !ok {
		return states.Meta{}, false
	}
	m, ok := v.(states.Meta)
	return m, ok
}

// remember stores m unless the key is already set. Entries are idempotent
// lookups of immutable data, so the first writer wins.
func (o *Orchestrator) remember(m states.Meta) bool {
	added := o.cache.Add(cacheKey(m.ID), m, cache.NoExpiration) == nil
	if added {
		o.metrics.SetCacheEntries(o.cache.ItemCount())
	}
	return added
}

// #endregion

// #region store

// fromStore asks the persistence store for a description. Concurrent
// lookups of the same state share one call.
func (o *Orchestrator) fromStore(ctx context.Context, id states.StateID) (states.Meta, bool) {
	v, err, _ := o.flight.Do(cacheKey(id), func() (any, error) {
		if m, ok := o.fromCache(ctx, id); ok {
			return m, nil
		}

		sctx, cancel := context.WithTimeout(ctx, o.cfg.PersistTimeout)
		defer cancel()

		brief, ok, err := o.store.StateBrief(sctx, id)
		if err != nil {
			return nil, err
		}
		if !ok || brief == "" {
			return nil, nil
		}
		m := withBrief(id, brief)
		o.remember(m)
		return m, nil
	})
	if err != nil {
		o.log.Debug("state brief lookup failed", zap.Int("state_id", int(id)), zap.Error(err))
		return states.Meta{}, false
	}
	m, ok := v.(states.Meta)
	return m, ok
}

func withBrief(id states.StateID, brief string) states.Meta {
	m := states.Describe(id)
	m.Description = brief
	return m
}

// #endregion
