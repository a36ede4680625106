package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/domain"
)

func TestGenerateProgressViewTracksFailedAttempts(t *testing.T) {
	model := newGenerateProgressModel(nil)
	assert.Contains(t, model.View(), "Generating message...")

	next, _ := model.Update(attemptMsg{Attempt: 1, MaxAttempts: 5, Result: application.AttemptTooLong, Backoff: time.Second})
	model = next.(generateProgressModel)
	next, _ = model.Update(attemptMsg{Attempt: 2, MaxAttempts: 5, Result: application.AttemptError, Backoff: 2 * time.Second})
	model = next.(generateProgressModel)

	view := model.View()
	assert.Contains(t, view, "attempt 1/5 failed (too long)")
	assert.Contains(t, view, "attempt 2/5 failed (error)")
	assert.Contains(t, view, "Generating message, attempt 3/5 after 2s pause")
}

func TestGenerateProgressViewIgnoresSuccessfulAttempt(t *testing.T) {
	model := newGenerateProgressModel(nil)

	next, _ := model.Update(attemptMsg{Attempt: 1, MaxAttempts: 5, Result: application.AttemptOK})
	next, cmd := next.Update(generatedMsg{message: "ciao"})

	final := next.(generateProgressModel)
	require.NotNil(t, cmd)
	assert.Empty(t, final.failed)
	assert.Empty(t, final.View())
}

func TestRunGenerateProgressKeepsRetryHistoryOnScreen(t *testing.T) {
	var out bytes.Buffer

	msg, err := runGenerateProgress(context.Background(), &out, func(_ context.Context, observe application.AttemptObserver) (domain.Message, error) {
		observe(application.AttemptReport{Attempt: 1, MaxAttempts: 3, Result: application.AttemptEmpty, Backoff: time.Second})
		observe(application.AttemptReport{Attempt: 2, MaxAttempts: 3, Result: application.AttemptOK})
		return "a domani", nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Message("a domani"), msg)
	assert.Contains(t, out.String(), "attempt 1/3 failed (empty reply)")
}

func TestRunGenerateProgressReturnsGenerationError(t *testing.T) {
	var out bytes.Buffer
	exhausted := errors.Join(domain.ErrGenerationExhausted, errors.New("upstream 500"))

	_, err := runGenerateProgress(context.Background(), &out, func(context.Context, application.AttemptObserver) (domain.Message, error) {
		return "", exhausted
	})
	require.ErrorIs(t, err, domain.ErrGenerationExhausted)
}
