package lorem

import (
	"context"
	"sync"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/bnema/warmer/internal/ports"
)

const (
	minWords = 8
	maxWords = 20
)

// Generator produces filler sentences offline for dry runs. It ignores the
// request content.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

var _ ports.TextGenerator = (*Generator)(nil)

func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

func (g *Generator) Complete(ctx context.Context, _ ports.ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.faker.Sentence(g.faker.IntRange(minWords, maxWords)), nil
}
