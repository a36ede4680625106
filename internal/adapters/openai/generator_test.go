package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/warmer/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRequest = ports.ChatRequest{
	Model: "gpt-4o-mini",
	Turns: []ports.ChatTurn{{Role: ports.ChatRoleUser, Content: "say something short"}},
}

func TestCompleteSendsChatRequestAndReturnsFirstChoice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		assert.Equal(t, []chatMessage{{Role: "user", Content: "say something short"}}, body.Messages)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hey, how was your weekend?"}},{"message":{"role":"assistant","content":"ignored"}}]}`))
	}))
	t.Cleanup(server.Close)

	generator := Generator{BaseURL: server.URL + "/v1", APIKey: "sk-test", HTTPClient: server.Client()}

	text, err := generator.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "hey, how was your weekend?", text)
}

func TestCompleteReportsAPIErrorMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(server.Close)

	generator := Generator{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := generator.Complete(context.Background(), testRequest)
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 401")
	assert.ErrorContains(t, err, "Incorrect API key provided")
}

func TestCompleteWithoutChoicesFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(server.Close)

	generator := Generator{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := generator.Complete(context.Background(), testRequest)
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestCompleteTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	t.Cleanup(server.Close)

	generator := Generator{BaseURL: server.URL, HTTPClient: server.Client(), RequestTimeout: 20 * time.Millisecond}

	_, err := generator.Complete(context.Background(), testRequest)
	require.Error(t, err)
	assert.ErrorContains(t, err, "request completion")
}

func TestCompleteRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		generator Generator
		req       ports.ChatRequest
		wantErr   string
	}{
		{name: "missing model", req: ports.ChatRequest{Turns: testRequest.Turns}, wantErr: "model is required"},
		{name: "no turns", req: ports.ChatRequest{Model: "gpt-4o-mini"}, wantErr: "at least one chat turn"},
		{name: "bad scheme", generator: Generator{BaseURL: "ftp://example.com"}, req: testRequest, wantErr: "http or https"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.generator.Complete(context.Background(), tc.req)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
