package ports

import "context"

type ChatRole string

const (
	ChatRoleSystem ChatRole = "system"
	ChatRoleUser   ChatRole = "user"
)

type ChatTurn struct {
	Role    ChatRole
	Content string
}

type ChatRequest struct {
	Model string
	Turns []ChatTurn
}

// TextGenerator produces text for a conversation, or fails.
type TextGenerator interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
