package infra

import (
	"context"
	"sort"

	"github.com/Tsinling0525/flowpatch/log"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// LogBus turns engine events into debug log records.
type LogBus struct {
	Logger log.Logger
}

func (b LogBus) Emit(ctx context.Context, event string, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	b.Logger.Debug(event, args...)
	return nil
}

var _ plugin.EventBus = LogBus{}
