package infra

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowpatch/log"
)

func TestLogBus(t *testing.T) {
	var buf bytes.Buffer
	bus := LogBus{Logger: log.NewWithWriter(&buf, log.LevelDebug, true)}

	require.NoError(t, bus.Emit(context.Background(), "node_replaced", map[string]any{"to": "MCP Call", "from": "HTTP Call"}))
	out := buf.String()
	assert.Contains(t, out, "node_replaced")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("from=")), bytes.Index(buf.Bytes(), []byte("to=")))
}
