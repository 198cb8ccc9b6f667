// Package app builds the services behind the CLI from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/studymate/internal/config"
	"github.com/abhisek/studymate/internal/diagnosis"
	"github.com/abhisek/studymate/internal/evidence"
	"github.com/abhisek/studymate/internal/gamification"
	"github.com/abhisek/studymate/internal/insights"
	"github.com/abhisek/studymate/internal/janitor"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/session"
	"github.com/abhisek/studymate/internal/spacedrep"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/transfer"
	"github.com/abhisek/studymate/internal/tutor"
)

// janitorQueueSize bounds pending cleanup tasks.
const janitorQueueSize = 64

// App owns the store and every service built on it.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	KV     store.KV

	Items      *store.Items
	Attempts   *store.Attempts
	ErrorTags  *store.ErrorTags
	Streaks    *store.Streaks
	Challenges *store.Challenges
	Badges     *store.Badges

	Scheduler    *spacedrep.Scheduler
	Gamification *gamification.Service
	Insights     *insights.Service
	Transfer     *transfer.Service
	Evidence     *evidence.Lookup
	Tutor        *tutor.Service
	Diagnosis    *diagnosis.Service

	// Provider is nil when no model provider is configured.
	Provider llm.Provider

	janitor *janitor.Worker
}

// New opens the configured store, degrading to a no-op store when it cannot
// be opened, and wires the services.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	log = logger.OrNop(log)

	catalog, err := gamification.LoadCatalog(cfg.Gamification.CatalogPath)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Gamification.Policy()
	if err != nil {
		return nil, err
	}

	kv := store.OpenOrDegrade(ctx, store.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		Redis: store.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		},
	}, log)

	a := &App{
		Config:     cfg,
		Log:        log,
		KV:         kv,
		Items:      store.NewItems(kv),
		Attempts:   store.NewAttempts(kv),
		ErrorTags:  store.NewErrorTags(kv),
		Streaks:    store.NewStreaks(kv),
		Challenges: store.NewChallenges(kv),
		Badges:     store.NewBadges(kv),
		janitor:    janitor.NewWorker(log, janitorQueueSize),
	}

	a.Scheduler = spacedrep.NewScheduler(a.Items)
	a.Gamification = gamification.NewService(gamification.Repos{
		Attempts:   a.Attempts,
		Streaks:    a.Streaks,
		Challenges: a.Challenges,
		Badges:     a.Badges,
	}, gamification.Config{
		Catalog:        catalog,
		BackdatePolicy: policy,
		Retention:      cfg.Gamification.Retention(),
	}, a.janitor)
	a.Insights = insights.NewService(a.Items, a.Attempts, a.ErrorTags, a.Gamification)
	a.Transfer = transfer.NewService(a.Items, a.Attempts, a.ErrorTags, log)

	var searcher evidence.Searcher
	if cfg.Evidence.BaseURL != "" {
		searcher = evidence.NewHTTPSearcher(cfg.Evidence.BaseURL, cfg.Evidence.Timeout)
	}
	a.Evidence = evidence.NewLookup(searcher, log)

	provider, err := llm.NewProvider(ctx, cfg.LLM, log)
	switch {
	case err == nil:
		a.Provider = provider
	case errors.Is(err, llm.ErrDisabled):
		log.Debug("no llm provider configured, ai feedback uses canned explanations")
	default:
		log.Warn("llm provider unavailable, ai feedback uses canned explanations", "error", err)
	}

	a.Tutor = tutor.NewService(a.explainer(), log)

	var diagProvider llm.Provider
	if cfg.Tutor.Diagnose {
		diagProvider = a.Provider
	}
	a.Diagnosis = diagnosis.NewService(diagProvider, log)

	return a, nil
}

// explainer prefers a remote explain service, then a model provider.
func (a *App) explainer() tutor.Explainer {
	switch {
	case a.Config.Tutor.BaseURL != "":
		return tutor.NewHTTPExplainer(a.Config.Tutor.BaseURL, a.Config.Tutor.Timeout)
	case a.Provider != nil:
		return tutor.NewLLMExplainer(a.Provider, a.Config.Tutor.MaxTokens, a.Config.Tutor.Temperature)
	default:
		return nil
	}
}

// NewSession starts a study session. rng may be nil.
func (a *App) NewSession(start time.Time, rng *rand.Rand) *session.Session {
	return session.New(session.Deps{
		Items:        a.Items,
		Scheduler:    a.Scheduler,
		Attempts:     a.Attempts,
		ErrorTags:    a.ErrorTags,
		Gamification: a.Gamification,
		Evidence:     a.Evidence,
		Tutor:        a.Tutor,
		Diagnosis:    a.Diagnosis,
		Log:          a.Log,
		Rand:         rng,
	}, start)
}

// ResetAll clears study data and every gamification record.
func (a *App) ResetAll(ctx context.Context) error {
	if err := a.Transfer.Reset(ctx); err != nil {
		return err
	}
	for _, coll := range []string{store.CollectionStreak, store.CollectionChallenge, store.CollectionBadges} {
		if err := a.KV.Clear(ctx, coll); err != nil {
			return fmt.Errorf("clear %s: %w", coll, err)
		}
	}
	a.Log.Info("learner data reset")
	return nil
}

// Degraded reports whether the app is running without persistence.
func (a *App) Degraded() bool {
	_, ok := a.KV.(*store.Degraded)
	return ok
}

// Close drains pending cleanup and closes the store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.janitor.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain janitor: %w", err))
	}
	if err := a.KV.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
