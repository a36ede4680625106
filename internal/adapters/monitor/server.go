package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnema/warmer/internal/application"
)

const shutdownTimeout = 5 * time.Second

type SnapshotFunc func() []application.WorkerStatus

type workerView struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	RoutingHandle string    `json:"routing_handle"`
	State         string    `json:"state"`
	Rounds        int       `json:"rounds"`
	Sent          int       `json:"sent"`
	LastOutcome   string    `json:"last_outcome,omitempty"`
	LastRoundAt   time.Time `json:"last_round_at,omitzero"`
	NextWakeAt    time.Time `json:"next_wake_at,omitzero"`
}

// Server exposes metrics, liveness and the fleet snapshot over HTTP.
type Server struct {
	echo   *echo.Echo
	logger *slog.Logger
}

func NewServer(snapshot SnapshotFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/workers", func(c echo.Context) error {
		statuses := snapshot()
		views := make([]workerView, 0, len(statuses))
		for _, status := range statuses {
			views = append(views, toView(status))
		}
		return c.JSON(http.StatusOK, views)
	})

	return &Server{echo: e, logger: logger.With("subsystem", "monitor")}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.echo.Listener = listener

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("monitor listening", "addr", listener.Addr().String())
		errCh <- s.echo.Start("")
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve monitor: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown monitor: %w", err)
	}
	s.logger.Info("monitor stopped")

	return nil
}

func toView(status application.WorkerStatus) workerView {
	return workerView{
		Name:          status.Account.Label(),
		Address:       status.Account.Address,
		RoutingHandle: status.Account.RoutingHandle,
		State:         string(status.State),
		Rounds:        status.Rounds,
		Sent:          status.Sent,
		LastOutcome:   string(status.LastOutcome),
		LastRoundAt:   status.LastRoundAt,
		NextWakeAt:    status.NextWakeAt,
	}
}
