package vars

import (
	"context"

	"github.com/roach88/palaver/internal/dialogue"
)

// Store is the durable variable storage contract. All methods are
// synchronous; a write that returns nil is immediately visible to
// subsequent reads.
type Store interface {
	// Get returns the value for name. The second return is false when the
	// variable does not exist.
	Get(ctx context.Context, name string) (dialogue.Value, bool, error)

	// Set writes a value, replacing any previous one.
	Set(ctx context.Context, name string, v dialogue.Value) error

	// Has reports whether a variable exists.
	Has(ctx context.Context, name string) (bool, error)

	// Delete removes a variable. Deleting a missing variable is not an
	// error.
	Delete(ctx context.Context, name string) error

	// Clear removes every variable.
	Clear(ctx context.Context) error

	// Names lists all variable names in sorted order.
	Names(ctx context.Context) ([]string, error)
}
