package plugin

import (
	"sort"
	"sync"

	"github.com/Tsinling0525/flowpatch/model"
)

type factory func() EditHandler

var (
	mu       sync.RWMutex
	registry = map[model.Op]factory{}
)

func Register(op model.Op, f factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[op] = f
}

func New(op model.Op) (EditHandler, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[op]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Ops lists the registered edit kinds.
func Ops() []model.Op {
	mu.RLock()
	defer mu.RUnlock()
	ops := make([]model.Op, 0, len(registry))
	for op := range registry {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
