package plugin

import (
	"context"

	"github.com/Tsinling0525/flowpatch/model"
)

type Deps struct {
	Bus EventBus
}

// EditHandler rewrites one string field according to a rule. Handlers are
// pure: the engine reads the field, applies guards, calls Apply and writes
// the result back only when Changed is set.
type EditHandler interface {
	Apply(value string, rule model.Rule) Result
}

// Result is what a handler did to a value. A non-empty Kind turns into a
// diagnostic for the node.
type Result struct {
	Value   string
	Changed bool
	Note    string
	Kind    model.Kind
}

type EventBus interface {
	Emit(ctx context.Context, event string, fields map[string]any) error
}

// FileStore is the file I/O surface used for workflow, backup and output
// files.
type FileStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	// Write creates or truncates path.
	Write(ctx context.Context, path string, data []byte) error
	// Create writes path only if it does not exist yet; otherwise it
	// returns an error matching fs.ErrExist.
	Create(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}
