package app

// #region imports
import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/config"
	"github.com/danielpatrickdp/emostate/internal/generation"
	"github.com/danielpatrickdp/emostate/internal/jobs"
	"github.com/danielpatrickdp/emostate/internal/logging"
	"github.com/danielpatrickdp/emostate/internal/metrics"
	"github.com/danielpatrickdp/emostate/internal/orchestrator"
	"github.com/danielpatrickdp/emostate/internal/persistence"
	"github.com/danielpatrickdp/emostate/internal/session"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// #endregion

// #region app-struct

// App is a fully wired service: the orchestrator and everything it owns.
type App struct {
	Orchestrator *orchestrator.Orchestrator
	Classifier   *classifier.Classifier
	Store        persistence.Store
	Warmer       *jobs.CacheWarmer // nil when the warm job is disabled

	log     *zap.Logger
	closers []func() error
}

// #endregion

// #region build

// Build wires the collaborators named by cfg. reg may be nil to disable metrics.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*App, error) {
	log = logging.OrNop(log)
	a := &App{log: log}

	clf, err := newClassifier(cfg)
	if err != nil {
		return nil, err
	}
	a.Classifier = clf

	gen, err := a.newGenerator(ctx, cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	store, err := newStore(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)

	sessions, err := newSessions(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	a.Orchestrator = orchestrator.New(orchestrator.Deps{
		Classifier: clf,
		Generator:  gen,
		Store:      store,
		Sessions:   sessions,
		Logger:     log,
		Metrics:    m,
	}, orchestrator.Config{
		GenerationTimeout: cfg.GenerationTimeout,
		PersistTimeout:    cfg.PersistTimeout,
		HistoryLimit:      3,
	})

	if cfg.CacheWarmInterval > 0 {
		w, err := jobs.NewCacheWarmer(a.Orchestrator, cfg.CacheWarmInterval, log)
		if err != nil {
			a.closeAll()
			return nil, err
		}
		a.Warmer = w
	} else if _, err := a.Orchestrator.WarmCache(ctx); err != nil {
		log.Warn("metadata cache not warmed, using built-in descriptions", zap.Error(err))
	}

	log.Info("service wired",
		zap.String("generation", cfg.GenerationProvider),
		zap.String("persistence", cfg.PersistenceDriver),
		zap.String("sessions", cfg.SessionDriver))
	return a, nil
}

// Start launches background jobs.
func (a *App) Start() {
	if a.Warmer != nil {
		a.Warmer.Start()
	}
}

// Close stops jobs, drains pending writes and releases every collaborator.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Warmer != nil {
		if err := a.Warmer.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop cache warmer: %w", err))
		}
	}
	if a.Orchestrator != nil {
		if err := a.Orchestrator.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, a.closeAll())
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// #endregion

// #region builders

func newClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	if cfg.LexiconFile == "" {
		return classifier.Default(), nil
	}
	lex, err := states.LoadFile(cfg.LexiconFile)
	if err != nil {
		return nil, err
	}
	return classifier.New(lex)
}

func (a *App) newGenerator(ctx context.Context, cfg *config.Config) (generation.Service, error) {
	switch cfg.GenerationProvider {
	case config.ProviderOpenAI:
		return generation.NewOpenAIService(generation.OpenAIConfig{
			APIKey:      cfg.GenerationAPIKey,
			BaseURL:     cfg.GenerationBaseURL,
			Model:       cfg.GenerationModel,
			Temperature: cfg.GenerationTemperature,
			MaxTokens:   cfg.GenerationMaxTokens,
		})
	case config.ProviderGemini:
		return generation.NewGeminiService(ctx, generation.GeminiConfig{
			APIKey:      cfg.GenerationAPIKey,
			Model:       cfg.GenerationModel,
			Temperature: cfg.GenerationTemperature,
			MaxTokens:   cfg.GenerationMaxTokens,
		})
	case config.ProviderGRPC:
		s, err := generation.NewGRPCService(cfg.GenerationGRPCAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case config.ProviderNone:
		a.log.Warn("no generation provider configured, every reply will be a fallback phrase")
		return generation.Disabled{}, nil
	}
	return nil, fmt.Errorf("%w: unknown generation provider %q", config.ErrInvalid, cfg.GenerationProvider)
}

func newStore(cfg *config.Config) (persistence.Store, error) {
	switch cfg.PersistenceDriver {
	case config.DriverSQLite:
		return persistence.NewSQLiteStore(cfg.SQLitePath)
	case config.DriverSupabase:
		return persistence.NewSupabaseStore(persistence.SupabaseConfig{
			URL:         cfg.SupabaseURL,
			APIKey:      cfg.SupabaseKey,
			TurnsTable:  cfg.SupabaseTurnsTable,
			StatesTable: cfg.SupabaseStatesTable,

			RequestTimeout: cfg.PersistTimeout,
		})
	case config.DriverNone:
		return persistence.Unavailable{}, nil
	}
	return nil, fmt.Errorf("%w: unknown persistence driver %q", config.ErrInvalid, cfg.PersistenceDriver)
}

func newSessions(cfg *config.Config) (session.Store, error) {
	if cfg.SessionDriver != config.SessionRedis {
		return session.NewStore(session.StoreTypeMemory, session.WithTTL(cfg.SessionTTL))
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return session.NewStore(session.StoreTypeRedis,
		session.WithRedisClient(redis.NewClient(opts)),
		session.WithTTL(cfg.SessionTTL))
}

// #endregion
