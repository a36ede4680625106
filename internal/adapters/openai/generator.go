package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/warmer/internal/ports"
)

const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	completionsPath     = "chat/completions"
	maxResponseBytes    = 1 << 20
	maxErrorBodyExcerpt = 512
)

var ErrNoChoices = errors.New("completion response has no choices")

// Generator calls the chat completions endpoint of an OpenAI-compatible API.
type Generator struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.TextGenerator = Generator{}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (g Generator) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", errors.New("model is required")
	}
	if len(req.Turns) == 0 {
		return "", errors.New("at least one chat turn is required")
	}

	endpoint, err := g.endpoint()
	if err != nil {
		return "", err
	}

	payload := completionRequest{Model: req.Model, Messages: make([]chatMessage, 0, len(req.Turns))}
	for _, turn := range req.Turns {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	requestCtx, cancel := g.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if g.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.httpClient().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("request completion: %s", decodeAPIError(resp))
	}

	var decoded completionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrNoChoices
	}

	return decoded.Choices[0].Message.Content, nil
}

func (g Generator) endpoint() (string, error) {
	baseURL := g.BaseURL
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

	return parsed.JoinPath(completionsPath).String(), nil
}

func (g Generator) httpClient() *http.Client {
	if g.HTTPClient != nil {
		return g.HTTPClient
	}
	return http.DefaultClient
}

func (g Generator) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := g.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeAPIError(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil || len(raw) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	excerpt := strings.TrimSpace(string(raw))
	if len(excerpt) > maxErrorBodyExcerpt {
		excerpt = excerpt[:maxErrorBodyExcerpt]
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, excerpt)
}
