package domain

import (
	"fmt"
	"time"
)

// Interval is an inclusive range of durations to draw random waits from.
type Interval struct {
	Min time.Duration
	Max time.Duration
}

func (i Interval) Validate() error {
	if i.Min < 0 {
		return fmt.Errorf("%w: min %s is negative", ErrInvalidInterval, i.Min)
	}
	if i.Max < i.Min {
		return fmt.Errorf("%w: max %s is below min %s", ErrInvalidInterval, i.Max, i.Min)
	}
	return nil
}

// Draw returns a duration uniformly distributed in [Min, Max].
func (i Interval) Draw(rng Random) time.Duration {
	span := int64(i.Max - i.Min)
	if span <= 0 {
		return i.Min
	}
	return i.Min + time.Duration(rng.Int64N(span+1))
}

func (i Interval) String() string {
	return fmt.Sprintf("%s-%s", i.Min, i.Max)
}
