package logsink

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

// Sink records would-be deliveries in the log and accepts all of them.
type Sink struct {
	logger *slog.Logger
}

var _ ports.MessageSink = Sink{}

func NewSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return Sink{logger: logger.With("subsystem", "logsink")}
}

func (s Sink) Send(ctx context.Context, from domain.Account, to string, message domain.Message) (ports.DeliveryResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DeliveryResult{}, err
	}

	s.logger.InfoContext(ctx, "dry-run delivery",
		"from", from.Address,
		"routing_handle", from.RoutingHandle,
		"to", to,
		"words", message.WordCount(),
		"message", string(message),
	)

	return ports.DeliveryResult{Accepted: true, StatusCode: http.StatusOK}, nil
}
