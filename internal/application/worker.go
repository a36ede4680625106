package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

const DefaultQuietHeartbeat = 10 * time.Minute

type WorkerState string

const (
	WorkerStarting WorkerState = "starting"
	WorkerActive   WorkerState = "active"
	WorkerIdle     WorkerState = "idle"
	WorkerQuiet    WorkerState = "quiet"
	WorkerStopped  WorkerState = "stopped"
)

type RoundOutcome string

const (
	RoundSent             RoundOutcome = "sent"
	RoundRejected         RoundOutcome = "rejected"
	RoundDeliveryFailed   RoundOutcome = "delivery_failed"
	RoundGenerationFailed RoundOutcome = "generation_failed"
	RoundNoPeer           RoundOutcome = "no_peer"
	RoundCancelled        RoundOutcome = "cancelled"
)

// Schedule holds the timing knobs shared by every worker.
type Schedule struct {
	Window         domain.ActivityWindow
	RoundInterval  domain.Interval
	QuietHeartbeat time.Duration
	// AlignToOpen shortens the last quiet sleep so the worker wakes exactly
	// when the window opens instead of on the next heartbeat.
	AlignToOpen bool
}

func (s Schedule) Validate() error {
	if err := s.Window.Validate(); err != nil {
		return err
	}
	if err := s.RoundInterval.Validate(); err != nil {
		return err
	}
	if s.QuietHeartbeat <= 0 {
		return errors.New("quiet heartbeat must be positive")
	}
	return nil
}

type WorkerStatus struct {
	Account     domain.Account
	State       WorkerState
	Rounds      int
	Sent        int
	LastOutcome RoundOutcome
	LastRoundAt time.Time
	NextWakeAt  time.Time
}

type WorkerConfig struct {
	Account  domain.Account
	Registry domain.Registry
	Content  *ContentService
	Sink     ports.MessageSink
	Clock    ports.Clock
	Rand     domain.Random
	Schedule Schedule
	Logger   *slog.Logger
}

// Worker is the control loop for one account. It picks a peer, obtains a
// message, hands it to the sink and idles, staying quiet outside the window.
type Worker struct {
	self     domain.Account
	registry domain.Registry
	content  *ContentService
	sink     ports.MessageSink
	clock    ports.Clock
	rng      domain.Random
	schedule Schedule
	logger   *slog.Logger

	mu     sync.Mutex
	status WorkerStatus
}

func NewWorker(cfg WorkerConfig) *Worker {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	schedule := cfg.Schedule
	if schedule.QuietHeartbeat <= 0 {
		schedule.QuietHeartbeat = DefaultQuietHeartbeat
	}

	return &Worker{
		self:     cfg.Account,
		registry: cfg.Registry,
		content:  cfg.Content,
		sink:     cfg.Sink,
		clock:    clock,
		rng:      cfg.Rand,
		schedule: schedule,
		logger:   logger.With("account", cfg.Account.Label(), "address", cfg.Account.Address),
		status:   WorkerStatus{Account: cfg.Account, State: WorkerStarting},
	}
}

func (w *Worker) Account() domain.Account {
	return w.self
}

func (w *Worker) Status() WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Run loops until ctx is cancelled and then returns ctx.Err(). Generation and
// delivery failures never end the loop.
func (w *Worker) Run(ctx context.Context) error {
	workersRunning.Inc()
	defer workersRunning.Dec()
	defer w.setState(WorkerStopped, time.Time{})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !w.schedule.Window.IsAllowed(w.clock.Now()) {
			if err := w.quietSleep(ctx); err != nil {
				return err
			}
			continue
		}

		w.setState(WorkerActive, time.Time{})
		w.RunRound(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		wait := w.schedule.RoundInterval.Draw(w.rng)
		w.setState(WorkerIdle, w.clock.Now().Add(wait))
		w.logger.Info("waiting before next round", "wait", wait.Round(time.Second))
		if err := sleep(ctx, w.clock, wait); err != nil {
			return err
		}
	}
}

// RunRound performs a single round and reports how it ended.
func (w *Worker) RunRound(ctx context.Context) RoundOutcome {
	peer, err := w.registry.PickPeer(w.self, w.rng)
	if err != nil {
		w.logger.Info("no available peers this round")
		return w.finishRound(RoundNoPeer)
	}

	msg, err := w.content.Generate(ctx, w.rng)
	if err != nil {
		if ctx.Err() != nil {
			return w.finishRound(RoundCancelled)
		}
		w.logger.Warn("failed to generate a message, skipping round", "peer", peer.Address, "err", err)
		return w.finishRound(RoundGenerationFailed)
	}

	result, err := w.sink.Send(ctx, w.self, peer.Address, msg)
	switch {
	case err != nil:
		deliveriesTotal.WithLabelValues("false").Inc()
		if ctx.Err() != nil {
			return w.finishRound(RoundCancelled)
		}
		w.logger.Warn("message delivery failed", "peer", peer.Address, "err", err)
		return w.finishRound(RoundDeliveryFailed)
	case !result.Accepted:
		deliveriesTotal.WithLabelValues("false").Inc()
		w.logger.Warn("message delivery rejected", "peer", peer.Address, "status", result.StatusCode)
		return w.finishRound(RoundRejected)
	default:
		deliveriesTotal.WithLabelValues("true").Inc()
		w.logger.Info("message sent", "peer", peer.Address, "status", result.StatusCode, "words", msg.WordCount())
		return w.finishRound(RoundSent)
	}
}

func (w *Worker) quietSleep(ctx context.Context) error {
	now := w.clock.Now()
	until := w.schedule.Window.UntilOpen(now)
	opensAt := now.Add(until)

	wait := w.schedule.QuietHeartbeat
	if w.schedule.AlignToOpen && until > 0 && until < wait {
		wait = until
	}

	w.setState(WorkerQuiet, now.Add(wait))
	quietSleeps.Inc()
	w.logger.Info("outside activity window, sleeping but alive", "resumes_at", opensAt, "next_check", wait)

	return sleep(ctx, w.clock, wait)
}

func (w *Worker) finishRound(outcome RoundOutcome) RoundOutcome {
	roundsTotal.WithLabelValues(string(outcome)).Inc()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.Rounds++
	if outcome == RoundSent {
		w.status.Sent++
	}
	w.status.LastOutcome = outcome
	w.status.LastRoundAt = w.clock.Now()
	return outcome
}

func (w *Worker) setState(state WorkerState, nextWake time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.State = state
	w.status.NextWakeAt = nextWake
}
