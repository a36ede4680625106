package domain

import "errors"

var (
	ErrEmptyRegistry       = errors.New("account registry is empty")
	ErrDuplicateAddress    = errors.New("duplicate account address")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrNoPeer              = errors.New("no peer available")
	ErrMessageTooLong      = errors.New("message exceeds word limit")
	ErrEmptyMessage        = errors.New("message is empty")
	ErrGenerationExhausted = errors.New("message generation exhausted retries")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrInvalidWindow       = errors.New("invalid activity window")
	ErrInvalidInterval     = errors.New("invalid interval")
)
