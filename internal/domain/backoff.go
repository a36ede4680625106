package domain

import (
	"fmt"
	"time"
)

type BackoffKind string

const (
	BackoffFixed       BackoffKind = "fixed"
	BackoffExponential BackoffKind = "exponential"
)

// BackoffPolicy decides how long to pause between generation attempts.
type BackoffPolicy struct {
	Kind   BackoffKind
	Base   time.Duration
	Max    time.Duration
	Jitter bool
}

func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{Kind: BackoffFixed, Base: time.Second, Max: 30 * time.Second}
}

func (p BackoffPolicy) Validate() error {
	switch p.Kind {
	case BackoffFixed, BackoffExponential:
	default:
		return fmt.Errorf("unsupported backoff kind %q", p.Kind)
	}
	if p.Base < 0 {
		return fmt.Errorf("backoff base %s is negative", p.Base)
	}
	if p.Kind == BackoffExponential && p.Max < p.Base {
		return fmt.Errorf("backoff max %s is below base %s", p.Max, p.Base)
	}
	return nil
}

// Delay returns the pause after the given failed attempt (1-based). Jitter
// draws uniformly from [0, delay].
func (p BackoffPolicy) Delay(attempt int, rng Random) time.Duration {
	delay := p.Base
	if p.Kind == BackoffExponential {
		for i := 1; i < attempt && delay < p.Max; i++ {
			delay *= 2
		}
		if delay > p.Max {
			delay = p.Max
		}
	}

	if p.Jitter && delay > 0 && rng != nil {
		delay = time.Duration(rng.Int64N(int64(delay) + 1))
	}
	return delay
}
