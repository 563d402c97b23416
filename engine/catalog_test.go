package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

const catalogEntry = `{
  "replaces": "A1",
  "name": "MCP Call",
  "node_config": {
    "parameters": {},
    "type": "@n8n/n8n-nodes-langchain.mcpClientTool",
    "typeVersion": 1,
    "position": [1, 2],
    "onError": "continueErrorOutput"
  }
}`

func TestParseCatalogArray(t *testing.T) {
	cat, err := ParseCatalog([]byte("[" + catalogEntry + "]"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A1"}, cat.IDs())
	r, ok := cat.Lookup("A1")
	require.True(t, ok)
	assert.Equal(t, "MCP Call", r.Name)

	n := r.Node("A1")
	assert.Equal(t, n8n.OnErrorContinueErrorOutput, n.OnError)
	assert.Equal(t, "{}", string(n.Parameters))

	_, ok = cat.Lookup("A2")
	assert.False(t, ok)
}

func TestParseCatalogObject(t *testing.T) {
	cat, err := ParseCatalog([]byte(mcpCatalog))
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, cat.IDs())
}

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `[{`},
		{"scalar", `"x"`},
		{"empty", `[]`},
		{"object without entries", `{"notes": "none"}`},
		{"missing node_config", `[{"replaces": "A1", "name": "X"}]`},
		{"missing type", `[{"replaces": "A1", "name": "X", "node_config": {"typeVersion": 1, "position": [0, 0], "parameters": {}}}]`},
		{"bad position", `[{"replaces": "A1", "name": "X", "node_config": {"type": "t", "typeVersion": 1, "position": [0], "parameters": {}}}]`},
		{"bad onError", `[{"replaces": "A1", "name": "X", "node_config": {"type": "t", "typeVersion": 1, "position": [0, 0], "parameters": {}, "onError": "ignore"}}]`},
		{"duplicate", "[" + catalogEntry + "," + catalogEntry + "]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidCatalog)
		})
	}
}

func TestReplacementNodeDoesNotAlias(t *testing.T) {
	cat, err := ParseCatalog([]byte("[" + catalogEntry + "]"))
	require.NoError(t, err)
	r, _ := cat.Lookup("A1")

	a := r.Node("A1")
	a.Position[0] = 99
	b := r.Node("A1")
	assert.Equal(t, 1.0, b.Position[0])
}
