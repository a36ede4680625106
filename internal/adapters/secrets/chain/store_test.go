package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
	portmocks "github.com/bnema/warmer/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testKey = "warmer/openai_api_key"

func TestStoreGetUsesFirstBackendWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, primary, fallback)

	primary.EXPECT().Get(mock.Anything, testKey).Return("from-env", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)
}

func TestStoreGetWalksBackendsInOrder(t *testing.T) {
	t.Parallel()

	first := portmocks.NewMockSecretStore(t)
	second := portmocks.NewMockSecretStore(t)
	third := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, first, second, third)

	first.EXPECT().Get(mock.Anything, testKey).Return("", domain.ErrSecretNotFound).Once()
	second.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("pass unavailable")).Once()
	third.EXPECT().Get(mock.Anything, testKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReturnsCombinedErrorWhenAllBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, primary, fallback)

	primary.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, testKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend 0")
	assert.ErrorContains(t, err, "backend 1")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStorePutSkipsReadOnlyBackend(t *testing.T) {
	t.Parallel()

	readOnly := portmocks.NewMockSecretStore(t)
	writable := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, readOnly, writable)

	readOnly.EXPECT().Put(mock.Anything, testKey, "secret").Return(errors.New("read-only")).Once()
	writable.EXPECT().Put(mock.Anything, testKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), testKey, "secret"))
}

func TestStorePutStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, primary, fallback)

	primary.EXPECT().Put(mock.Anything, testKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), testKey, "secret"))
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := newTestStore(t, primary, fallback)

	primary.EXPECT().Get(mock.Anything, testKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreRejectsMissingBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore()
	require.Error(t, err)

	_, err = NewStore(portmocks.NewMockSecretStore(t), nil)
	require.ErrorContains(t, err, "backend 1 is nil")
}

func newTestStore(t *testing.T, backends ...ports.SecretStore) *Store {
	t.Helper()

	store, err := NewStore(backends...)
	require.NoError(t, err)
	return store
}
