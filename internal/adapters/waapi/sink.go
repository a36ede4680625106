package waapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://waapi.app/api/v1"
	maxResponseBytes = 64 << 10
)

// Sink sends chat messages through a waapi instance selected by the sender's
// routing handle. Sends from one handle are paced by a token bucket.
type Sink struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	RatePerSecond  float64
	Burst          int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var _ ports.MessageSink = (*Sink)(nil)

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

func (s *Sink) Send(ctx context.Context, from domain.Account, to string, message domain.Message) (ports.DeliveryResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DeliveryResult{}, err
	}
	if from.RoutingHandle == "" {
		return ports.DeliveryResult{}, errors.New("sender routing handle is required")
	}

	endpoint, err := s.endpoint(from.RoutingHandle)
	if err != nil {
		return ports.DeliveryResult{}, err
	}

	if err := s.limiter(from.RoutingHandle).Wait(ctx); err != nil {
		return ports.DeliveryResult{}, fmt.Errorf("wait for send slot: %w", err)
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: to, Message: string(message)})
	if err != nil {
		return ports.DeliveryResult{}, fmt.Errorf("encode send request: %w", err)
	}

	requestCtx, cancel := s.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.DeliveryResult{}, fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return ports.DeliveryResult{}, fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return ports.DeliveryResult{
		Accepted:   resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices,
		StatusCode: resp.StatusCode,
	}, nil
}

func (s *Sink) limiter(handle string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limiters == nil {
		s.limiters = map[string]*rate.Limiter{}
	}
	if limiter, ok := s.limiters[handle]; ok {
		return limiter
	}

	limit := rate.Inf
	if s.RatePerSecond > 0 {
		limit = rate.Limit(s.RatePerSecond)
	}
	burst := s.Burst
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(limit, burst)
	s.limiters[handle] = limiter
	return limiter
}

func (s *Sink) endpoint(handle string) (string, error) {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return parsed.JoinPath("instances", handle, "client", "action", "send-message").String(), nil
}

func (s *Sink) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func (s *Sink) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := s.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}
