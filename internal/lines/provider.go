// Package lines resolves opaque line IDs into localized, substituted text.
//
// The control loop treats the provider as a replaceable collaborator: a
// missing line is not an error, the loop substitutes a visible placeholder
// and the run proceeds.
package lines

import (
	"context"

	"github.com/roach88/palaver/internal/dialogue"
)

// Line is resolved, presentable text.
type Line struct {
	ID            string
	Text          string
	Substitutions []dialogue.Value
	Metadata      map[string]string
}

// Provider is the localization contract.
type Provider interface {
	// Resolve looks up a line and applies positional substitutions.
	// The second return is false when the ID is unknown.
	Resolve(ctx context.Context, id string, subs []dialogue.Value) (Line, bool)

	// Preload warms the provider for IDs that will be requested shortly.
	// Advisory: a provider that keeps everything resident may treat it as
	// a no-op.
	Preload(ctx context.Context, ids []string) error
}
