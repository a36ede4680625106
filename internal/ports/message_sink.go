package ports

import (
	"context"

	"github.com/bnema/warmer/internal/domain"
)

// DeliveryResult is informational only: schedulers log it and move on.
type DeliveryResult struct {
	Accepted   bool
	StatusCode int
}

// MessageSink delivers text from one account to a destination address. An
// error means the request never completed; a rejected delivery is reported
// through DeliveryResult.
type MessageSink interface {
	Send(ctx context.Context, from domain.Account, to string, message domain.Message) (DeliveryResult, error)
}
