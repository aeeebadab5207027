package runner

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces run tokens. Each Start call stamps its run with
// a fresh token so observers and logs can correlate notifications across
// sessions.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 run tokens. Stateless and
// safe for concurrent use.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens, enabling deterministic
// golden-trace tests.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order and
// panics when exhausted; running out of tokens in a test is a test bug.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
