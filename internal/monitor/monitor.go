// Package monitor drives the periodic fetch → dedup → score → persist →
// deliver pipeline. Cycles are serialized: a tick that fires while a cycle is
// still running is skipped, and stopping waits for the in-flight cycle.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dike950121/upwork-radar/internal/cache"
	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/scoring"
	"github.com/dike950121/upwork-radar/internal/store"
	"github.com/dike950121/upwork-radar/internal/upwork"
)

// Fetcher is the fetch collaborator boundary.
type Fetcher interface {
	Search(params *upwork.SearchParams) (*job.Jobs, error)
}

// Deliverer is the distribution collaborator boundary.
type Deliverer interface {
	Deliver(ctx context.Context, j *job.Job, category string) error
}

type Monitor struct {
	fetcher      Fetcher
	params       *upwork.SearchParams
	seen         *cache.Seen
	orchestrator *scoring.Orchestrator
	store        store.Store
	deliverer    Deliverer
	logger       *zap.Logger

	cron     *cron.Cron
	interval time.Duration

	mu      sync.Mutex
	running bool
	inCycle sync.WaitGroup
}

type Deps struct {
	Fetcher      Fetcher
	Params       *upwork.SearchParams
	Seen         *cache.Seen
	Orchestrator *scoring.Orchestrator
	Store        store.Store
	Deliverer    Deliverer
	Logger       *zap.Logger
}

func New(interval time.Duration, deps Deps) (*Monitor, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if deps.Seen == nil {
		return nil, errors.New("seen cache is required")
	}
	if deps.Orchestrator == nil {
		return nil, errors.New("scoring orchestrator is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Monitor{
		fetcher:      deps.Fetcher,
		params:       deps.Params,
		seen:         deps.Seen,
		orchestrator: deps.Orchestrator,
		store:        deps.Store,
		deliverer:    deps.Deliverer,
		logger:       logger,
		cron:         cron.New(),
		interval:     interval,
	}, nil
}

// Start registers the periodic cycle and runs one immediately so the feed is
// populated without waiting for the first tick.
func (m *Monitor) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(spec, func() { m.RunCycle(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	m.cron.Start()
	m.logger.Info("monitor started", zap.Duration("interval", m.interval))

	go m.RunCycle(ctx)
	return nil
}

// Stop halts the scheduler and waits for an in-flight cycle to finish, or
// for ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	<-m.cron.Stop().Done()

	done := make(chan struct{})
	go func() {
		m.inCycle.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("monitor stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight cycle: %w", ctx.Err())
	}
}

// RunCycle executes one fetch cycle. Overlapping invocations are skipped.
func (m *Monitor) RunCycle(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.Info("skipping cycle", zap.String("reason", "previous cycle still running"))
		return
	}
	m.running = true
	m.inCycle.Add(1)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		m.inCycle.Done()
	}()

	m.cycle(ctx)
}

func (m *Monitor) cycle(ctx context.Context) {
	jobs, err := m.fetcher.Search(m.params)
	if err != nil {
		m.logger.Error("fetch failed, skipping cycle", zap.Error(err))
		return
	}

	initial := jobs.Len()
	dropped := m.dedup(jobs)

	m.logger.Info("fetch cycle",
		zap.Int("initial", initial),
		zap.Int("dropped", len(dropped)),
		zap.Int("left", jobs.Len()),
	)

	processed := 0
	for _, j := range jobs.Items {
		if ctx.Err() != nil {
			m.logger.Warn("cycle interrupted", zap.Error(ctx.Err()))
			break
		}

		// One job's failure is isolated; the cycle continues.
		if err := m.process(ctx, j); err != nil {
			m.logger.Error("processing job failed",
				zap.String("external_id", j.ExternalID),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	m.seen.MarkFetch(time.Now().UTC())

	stats := m.seen.Stats()
	m.logger.Info("cycle complete",
		zap.Int("processed", processed),
		zap.Int("seen_total", stats.Size),
	)
}

// dedup removes jobs already recorded in the seen cache from the fetched
// list and returns the dropped external ids.
func (m *Monitor) dedup(jobs *job.Jobs) []string {
	seen := make([]string, 0, jobs.Len())
	for _, j := range jobs.Items {
		if m.seen.Has(j.ExternalID) {
			seen = append(seen, j.ExternalID)
		}
	}
	return jobs.Exclude(job.JobExternalIDField, seen)
}

// process scores, categorizes, persists and delivers a single job. The job
// enters the seen cache only after a successful persistence write so a
// failed job is retried next cycle.
func (m *Monitor) process(ctx context.Context, j *job.Job) error {
	score := m.orchestrator.ScoreJob(ctx, j)
	category := m.orchestrator.CategorizeJob(ctx, j)

	j.SetScore(score)
	j.Category = category

	if err := m.persist(ctx, j); err != nil {
		return err
	}

	m.seen.Record(j.ExternalID, j)

	m.logger.Info("job scored",
		zap.String("external_id", j.ExternalID),
		zap.String("title", j.Title),
		zap.Float64("score", j.Score),
		zap.String("category", j.Category),
	)

	if m.deliverer != nil {
		if err := m.deliverer.Deliver(ctx, j, j.Category); err != nil {
			// Delivery is best effort; the job is already persisted.
			m.logger.Warn("delivery failed",
				zap.String("external_id", j.ExternalID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (m *Monitor) persist(ctx context.Context, j *job.Job) error {
	_, err := m.store.JobByExternalID(ctx, j.ExternalID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return m.store.CreateJob(ctx, j)
	case err != nil:
		return fmt.Errorf("lookup job: %w", err)
	default:
		return m.store.UpdateJob(ctx, j.ExternalID, store.JobPatch{
			Score:    &j.Score,
			Category: &j.Category,
		})
	}
}

// Stats exposes the dedup cache snapshot.
func (m *Monitor) Stats() cache.Stats {
	return m.seen.Stats()
}
