package lines

import (
	"context"

	"github.com/roach88/palaver/internal/dialogue"
)

// Static is a Provider backed by a plain id-to-text map with no locale
// handling. A nil map is valid and resolves nothing, which makes every
// line surface as a placeholder; useful when playtesting a script before
// its line table exists.
type Static struct {
	table map[string]string
}

var _ Provider = (*Static)(nil)

// NewStatic creates a static provider over the given table.
func NewStatic(table map[string]string) *Static {
	return &Static{table: table}
}

func (s *Static) Resolve(_ context.Context, id string, subs []dialogue.Value) (Line, bool) {
	text, ok := s.table[id]
	if !ok {
		return Line{}, false
	}
	return Line{ID: id, Text: Substitute(text, subs), Substitutions: subs}, true
}

func (s *Static) Preload(context.Context, []string) error {
	return nil
}
