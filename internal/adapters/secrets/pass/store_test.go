package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/warmer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutUsesPassInsert(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "-m", "-f", "warmer/waapi_token"}, args)
			assert.Equal(t, "tok-123\n", input)
			return "", "", nil
		},
	}

	require.NoError(t, store.Put(context.Background(), "warmer/waapi_token", "tok-123"))
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLineOnly(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "warmer/openai_api_key"}, args)
			assert.Empty(t, input)
			return "sk-test\nurl: https://platform.openai.com\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "warmer/openai_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", value)
}

func TestStoreGetMissingEntryReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: warmer/openai_api_key is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "warmer/openai_api_key")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "gpg: decryption failed", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), "warmer/openai_api_key")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "warmer/openai_api_key")
	assert.ErrorContains(t, err, "gpg: decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreCanceledContextSkipsCommand(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			t.Fatal("pass must not run with a canceled context")
			return "", "", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "warmer/openai_api_key")
	require.ErrorIs(t, err, context.Canceled)
}
