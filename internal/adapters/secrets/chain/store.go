package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/bnema/warmer/internal/adapters/secrets/env"
	filestore "github.com/bnema/warmer/internal/adapters/secrets/file"
	passstore "github.com/bnema/warmer/internal/adapters/secrets/pass"
	"github.com/bnema/warmer/internal/ports"
)

// Store tries each backend in order. Reads return the first hit and writes
// land in the first backend that accepts them.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

// NewStore chains backends in lookup order. Every backend must be non-nil.
func NewStore(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("secret store backend %d is nil", i)
		}
	}

	return &Store{backends: append([]ports.SecretStore(nil), backends...)}, nil
}

// NewDefault layers environment overrides over pass, with a plain file store
// as the last resort.
func NewDefault(envVars map[string]string, fileRoot string) (*Store, error) {
	return NewStore(envstore.NewStore(envVars), passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put failed: %w", i, err))
	}

	return errors.Join(errs...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get failed: %w", i, err))
	}

	return "", errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
