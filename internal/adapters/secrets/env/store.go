package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

var ErrReadOnly = errors.New("environment secret store is read-only")

// Store resolves secret references from process environment variables.
// Each reference maps to exactly one variable name.
type Store struct {
	vars   map[string]string
	lookup func(string) (string, bool)
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(vars map[string]string) *Store {
	copied := make(map[string]string, len(vars))
	for key, name := range vars {
		copied[key] = name
	}

	return &Store{vars: copied, lookup: os.LookupEnv}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, ok := s.vars[key]
	if !ok {
		return "", fmt.Errorf("env secret %q: no variable mapped: %w", key, domain.ErrSecretNotFound)
	}

	value, ok := s.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("env secret %q: %s is unset: %w", key, name, domain.ErrSecretNotFound)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fmt.Errorf("put %q: %w", key, ErrReadOnly)
}
