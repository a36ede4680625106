package domain

import (
	"fmt"
)

// Registry is the immutable set of accounts known to the process. It is built
// once at startup and shared read-only by every worker.
type Registry struct {
	accounts []Account
}

func NewRegistry(accounts []Account) (Registry, error) {
	if len(accounts) == 0 {
		return Registry{}, ErrEmptyRegistry
	}

	normalized := make([]Account, 0, len(accounts))
	seen := make(map[string]struct{}, len(accounts))
	for i, account := range accounts {
		account.Normalize()
		if err := account.Validate(); err != nil {
			return Registry{}, fmt.Errorf("account #%d: %w", i+1, err)
		}
		if _, ok := seen[account.Address]; ok {
			return Registry{}, fmt.Errorf("%w: %s", ErrDuplicateAddress, account.Address)
		}
		seen[account.Address] = struct{}{}
		normalized = append(normalized, account)
	}

	return Registry{accounts: normalized}, nil
}

func (r Registry) Len() int {
	return len(r.accounts)
}

// Accounts returns a copy of the registered accounts in registration order.
func (r Registry) Accounts() []Account {
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Peers returns every account except self, matched by address.
func (r Registry) Peers(self Account) []Account {
	peers := make([]Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		if account.Address == self.Address {
			continue
		}
		peers = append(peers, account)
	}
	return peers
}

// Random is the subset of math/rand/v2.Rand the scheduler draws from.
type Random interface {
	IntN(n int) int
	Int64N(n int64) int64
}

// PickPeer chooses a peer for self uniformly at random. It returns ErrNoPeer
// when self is the only registered account.
func (r Registry) PickPeer(self Account, rng Random) (Account, error) {
	peers := r.Peers(self)
	if len(peers) == 0 {
		return Account{}, ErrNoPeer
	}
	return peers[rng.IntN(len(peers))], nil
}
