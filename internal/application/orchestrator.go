package application

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
	"golang.org/x/sync/errgroup"
)

type FleetConfig struct {
	Registry   domain.Registry
	Content    *ContentService
	Sink       ports.MessageSink
	Clock      ports.Clock
	Schedule   Schedule
	StartDelay domain.Interval
	// Seed makes every random draw reproducible; zero picks a random seed.
	Seed   uint64
	Logger *slog.Logger
}

// Orchestrator starts one worker per account with a randomized stagger and
// waits for all of them.
type Orchestrator struct {
	workers    []*Worker
	clock      ports.Clock
	rng        domain.Random
	startDelay domain.Interval
	logger     *slog.Logger
}

// NewFleet builds an orchestrator with one worker per registered account.
// Each worker owns its random source, so no draw is shared between goroutines.
func NewFleet(cfg FleetConfig) *Orchestrator {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	accounts := cfg.Registry.Accounts()
	workers := make([]*Worker, 0, len(accounts))
	for i, account := range accounts {
		workers = append(workers, NewWorker(WorkerConfig{
			Account:  account,
			Registry: cfg.Registry,
			Content:  cfg.Content,
			Sink:     cfg.Sink,
			Clock:    clock,
			Rand:     rand.New(rand.NewPCG(seed, uint64(i)+1)),
			Schedule: cfg.Schedule,
			Logger:   logger,
		}))
	}

	return NewOrchestrator(workers, clock, rand.New(rand.NewPCG(seed, 0)), cfg.StartDelay, logger)
}

func NewOrchestrator(workers []*Worker, clock ports.Clock, rng domain.Random, startDelay domain.Interval, logger *slog.Logger) *Orchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		workers:    workers,
		clock:      clock,
		rng:        rng,
		startDelay: startDelay,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled and every worker has returned. A
// cancelled context is a clean shutdown and yields nil.
func (o *Orchestrator) Run(ctx context.Context) error {
	if len(o.workers) == 0 {
		return domain.ErrEmptyRegistry
	}

	var g errgroup.Group
	for i, worker := range o.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
		o.logger.Info("worker started", "account", worker.Account().Label(), "index", i+1, "total", len(o.workers))

		if i == len(o.workers)-1 {
			break
		}

		delay := o.startDelay.Draw(o.rng)
		o.logger.Info("delaying before starting next worker", "delay", delay)
		if err := sleep(ctx, o.clock, delay); err != nil {
			break
		}
	}

	err := g.Wait()
	if ctx.Err() != nil {
		o.logger.Info("all workers stopped")
		return nil
	}
	return err
}

func (o *Orchestrator) Snapshot() []WorkerStatus {
	statuses := make([]WorkerStatus, 0, len(o.workers))
	for _, worker := range o.workers {
		statuses = append(statuses, worker.Status())
	}
	return statuses
}
