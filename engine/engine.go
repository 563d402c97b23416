package engine

import (
	"context"

	"github.com/Tsinling0525/flowpatch/plugin"
)

// Engine runs migration and patch passes over an in-memory workflow. It never
// touches files; callers load, back up and save around it.
type Engine struct {
	Deps plugin.Deps
}

func New(deps plugin.Deps) *Engine { return &Engine{Deps: deps} }

func (e *Engine) emit(ctx context.Context, event string, fields map[string]any) {
	if e.Deps.Bus == nil {
		return
	}
	_ = e.Deps.Bus.Emit(ctx, event, fields)
}
