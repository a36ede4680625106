package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

const DefaultMaxAttempts = 5

// GenerationPolicy configures how ContentService asks for and validates text.
type GenerationPolicy struct {
	Model       string
	Prompt      string
	MaxAttempts int
	MaxWords    int
	Backoff     domain.BackoffPolicy
}

func (p GenerationPolicy) Validate() error {
	if p.Prompt == "" {
		return errors.New("generation prompt is empty")
	}
	if p.MaxAttempts < 1 {
		return fmt.Errorf("generation max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.MaxWords < 1 {
		return fmt.Errorf("generation max words must be at least 1, got %d", p.MaxWords)
	}
	return p.Backoff.Validate()
}

// ContentService wraps a TextGenerator with bounded retries and the word limit.
// Calls that error and replies that are too long both consume an attempt.
type ContentService struct {
	generator ports.TextGenerator
	clock     ports.Clock
	policy    GenerationPolicy
	logger    *slog.Logger
}

func NewContentService(generator ports.TextGenerator, clock ports.Clock, policy GenerationPolicy, logger *slog.Logger) *ContentService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.MaxWords < 1 {
		policy.MaxWords = domain.DefaultMaxWords
	}

	return &ContentService{generator: generator, clock: clock, policy: policy, logger: logger}
}

// Attempt results reported to an AttemptObserver.
const (
	AttemptOK      = "ok"
	AttemptTooLong = "too_long"
	AttemptEmpty   = "empty"
	AttemptError   = "error"
)

// AttemptReport describes one finished generation attempt.
type AttemptReport struct {
	Attempt     int
	MaxAttempts int
	Result      string
	Err         error
	// Backoff is the pause before the next attempt, zero after the last one.
	Backoff time.Duration
}

// AttemptObserver is called synchronously after every attempt that ran to
// completion. Attempts cut short by cancellation are not reported.
type AttemptObserver func(AttemptReport)

// Generate returns a valid message or an error wrapping
// domain.ErrGenerationExhausted once every attempt has failed.
func (s *ContentService) Generate(ctx context.Context, rng domain.Random) (domain.Message, error) {
	return s.GenerateObserved(ctx, rng, nil)
}

// GenerateObserved is Generate with observe notified of each attempt.
func (s *ContentService) GenerateObserved(ctx context.Context, rng domain.Random, observe AttemptObserver) (domain.Message, error) {
	if observe == nil {
		observe = func(AttemptReport) {}
	}

	req := ports.ChatRequest{
		Model: s.policy.Model,
		Turns: []ports.ChatTurn{{Role: ports.ChatRoleUser, Content: s.policy.Prompt}},
	}

	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		report := AttemptReport{Attempt: attempt, MaxAttempts: s.policy.MaxAttempts}
		msg, err := s.attempt(ctx, req)
		if err == nil {
			generationAttempts.WithLabelValues(AttemptOK).Inc()
			report.Result = AttemptOK
			observe(report)
			return msg, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		lastErr = err
		report.Result, report.Err = attemptResult(err), err
		generationAttempts.WithLabelValues(report.Result).Inc()
		s.logger.Warn("message generation attempt failed",
			"attempt", attempt,
			"max_attempts", s.policy.MaxAttempts,
			"err", err,
		)

		if attempt < s.policy.MaxAttempts {
			report.Backoff = s.policy.Backoff.Delay(attempt, rng)
		}
		observe(report)
		if attempt == s.policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, s.clock, report.Backoff); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %w", domain.ErrGenerationExhausted, s.policy.MaxAttempts, lastErr)
}

func (s *ContentService) attempt(ctx context.Context, req ports.ChatRequest) (domain.Message, error) {
	raw, err := s.generator.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("complete chat: %w", err)
	}

	return domain.NewMessage(raw, s.policy.MaxWords)
}

func attemptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrMessageTooLong):
		return AttemptTooLong
	case errors.Is(err, domain.ErrEmptyMessage):
		return AttemptEmpty
	default:
		return AttemptError
	}
}
