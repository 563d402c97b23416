package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/Tsinling0525/flowpatch/edits/assign"
	_ "github.com/Tsinling0525/flowpatch/edits/block"
	_ "github.com/Tsinling0525/flowpatch/edits/replace"
	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/plugin"
)

type recordBus struct {
	mu     sync.Mutex
	events []string
}

func (b *recordBus) Emit(_ context.Context, event string, _ map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func newTestEngine() (*Engine, *recordBus) {
	bus := &recordBus{}
	return New(plugin.Deps{Bus: bus}), bus
}

func decode(t *testing.T, doc string) *n8n.Workflow {
	t.Helper()
	wf, err := n8n.Decode([]byte(doc))
	require.NoError(t, err)
	return wf
}

func encode(t *testing.T, wf *n8n.Workflow) []byte {
	t.Helper()
	out, err := n8n.Encode(wf)
	require.NoError(t, err)
	return out
}

func compactJSON(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(s)))
	return buf.Bytes()
}
