package infra

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/Tsinling0525/flowpatch/plugin"
)

// MemFiles is an in-memory FileStore implementation
type MemFiles struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemFiles() *MemFiles { return &MemFiles{data: make(map[string][]byte)} }

func (m *MemFiles) Read(ctx context.Context, path string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), b...), nil
}

func (m *MemFiles) Write(ctx context.Context, path string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = append([]byte(nil), data...)
	return nil
}

func (m *MemFiles) Create(ctx context.Context, path string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[path]; ok {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	m.data[path] = append([]byte(nil), data...)
	return nil
}

func (m *MemFiles) Exists(ctx context.Context, path string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[path]
	return ok, nil
}

// Paths lists stored paths in sorted order.
func (m *MemFiles) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for p := range m.data {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var _ plugin.FileStore = (*MemFiles)(nil)
