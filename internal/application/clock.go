package application

import (
	"context"
	"time"

	"github.com/bnema/warmer/internal/ports"
)

// sleep blocks for d on clock or until ctx is done.
func sleep(ctx context.Context, clock ports.Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
