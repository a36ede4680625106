package application

import (
	"context"
	"fmt"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

// LoadRegistry reads every configured account and freezes them into a
// validated registry. An empty or invalid registry is a startup failure.
func LoadRegistry(ctx context.Context, repo ports.AccountRepository) (domain.Registry, error) {
	accounts, err := repo.List(ctx)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("list accounts: %w", err)
	}

	registry, err := domain.NewRegistry(accounts)
	if err != nil {
		return domain.Registry{}, fmt.Errorf("build account registry: %w", err)
	}

	return registry, nil
}

// AddAccount validates account against the existing registry and persists it.
func AddAccount(ctx context.Context, repo ports.AccountRepository, account domain.Account) error {
	account.Normalize()
	if err := account.Validate(); err != nil {
		return err
	}

	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	for _, other := range existing {
		if other.Address == account.Address {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateAddress, account.Address)
		}
	}

	if err := repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}
