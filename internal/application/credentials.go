package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/warmer/internal/domain"
	"github.com/bnema/warmer/internal/ports"
)

type Credentials struct {
	OpenAIKey  string
	WaapiToken string
}

type CredentialRefs struct {
	OpenAIKey  string
	WaapiToken string
}

// LoadCredentials resolves both API credentials. Every missing one is
// reported so a single startup attempt shows all configuration gaps.
func LoadCredentials(ctx context.Context, store ports.SecretStore, refs CredentialRefs) (Credentials, error) {
	openAIKey, openAIErr := ResolveSecret(ctx, store, refs.OpenAIKey)
	waapiToken, waapiErr := ResolveSecret(ctx, store, refs.WaapiToken)
	if err := errors.Join(openAIErr, waapiErr); err != nil {
		return Credentials{}, err
	}

	return Credentials{OpenAIKey: openAIKey, WaapiToken: waapiToken}, nil
}

// ResolveSecret reads one credential and treats a blank value as missing.
func ResolveSecret(ctx context.Context, store ports.SecretStore, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty secret reference", domain.ErrSecretNotFound)
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", key, err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("resolve secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}
