package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

const legacyWorkflow = `{
  "name": "Bot",
  "nodes": [
    {
      "parameters": {"path": "hook"},
      "id": "A0",
      "name": "Webhook",
      "type": "n8n-nodes-base.webhook",
      "typeVersion": 2,
      "position": [0, 0],
      "webhookId": "w-1"
    },
    {
      "parameters": {"url": "https://legacy.example/send", "method": "POST"},
      "id": "A1",
      "name": "HTTP Call",
      "type": "n8n-nodes-base.httpRequest",
      "typeVersion": 4.2,
      "position": [200, 0],
      "credentials": {"httpHeaderAuth": {"id": "k1", "name": "Legacy"}}
    },
    {
      "parameters": {"jsCode": "return items;"},
      "id": "A2",
      "name": "Reply",
      "type": "n8n-nodes-base.code",
      "typeVersion": 2,
      "position": [400, 0]
    }
  ],
  "connections": {
    "Webhook": {"main": [[{"node": "HTTP Call", "type": "main", "index": 0}]]},
    "HTTP Call": {"main": [[{"node": "Reply", "type": "main", "index": 0}]]}
  },
  "settings": {"executionOrder": "v1"}
}`

const mcpCatalog = `{
  "mcp_wasender_nodes": [
    {
      "replaces": "A1",
      "name": "MCP Call",
      "node_config": {
        "parameters": {"tool": "send_message", "endpoint": "http://mcp:3000"},
        "type": "@n8n/n8n-nodes-langchain.mcpClientTool",
        "typeVersion": 1,
        "position": [200, 40]
      }
    }
  ],
  "notes": "generated"
}`

func mustCatalog(t *testing.T, doc string) *Catalog {
	t.Helper()
	cat, err := ParseCatalog([]byte(doc))
	require.NoError(t, err)
	return cat
}

func TestMigrateReplacesTargetKeepingID(t *testing.T) {
	e, bus := newTestEngine()
	wf := decode(t, legacyWorkflow)

	m, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), []string{"A1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A0", "A1", "A2"}, wf.IDs())
	assert.Equal(t, []string{"A1"}, m.Targeted)
	assert.Equal(t, map[string]string{"HTTP Call": "MCP Call"}, m.Renamed)
	assert.Equal(t, 1, m.Report.Modified)
	assert.Empty(t, m.Report.Diagnostics)
	assert.Equal(t, []string{"node_replaced"}, bus.events)

	n := wf.Node("A1")
	require.NotNil(t, n)
	assert.Equal(t, "MCP Call", n.Name)
	assert.Equal(t, "@n8n/n8n-nodes-langchain.mcpClientTool", n.Type)
	assert.Equal(t, 1.0, n.TypeVersion)
	assert.Equal(t, []float64{200, 40}, n.Position)
	assert.Equal(t, n8n.OnErrorStopWorkflow, n.OnError)
	assert.Equal(t, "send_message", n.Param("tool").String())

	out := encode(t, wf)
	replaced := gjson.GetBytes(out, "nodes.1")
	assert.False(t, replaced.Get("credentials").Exists())
	var keys []string
	replaced.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"parameters", "type", "typeVersion", "position", "id", "name", "onError"}, keys)
}

func TestMigrateLeavesOtherNodesByteIdentical(t *testing.T) {
	e, _ := newTestEngine()
	wf := decode(t, legacyWorkflow)

	_, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), nil)
	require.NoError(t, err)

	out := encode(t, wf)
	for _, i := range []string{"0", "2"} {
		before := gjson.Get(legacyWorkflow, "nodes."+i).Raw
		after := gjson.GetBytes(out, "nodes."+i).Raw
		assert.Equal(t, compactJSON(t, before), compactJSON(t, after), "node %s", i)
	}
	assert.Equal(t, gjson.Get(legacyWorkflow, "connections").Value(), gjson.GetBytes(out, "connections").Value())
}

func TestMigrateMissingReplacementKeepsNode(t *testing.T) {
	e, _ := newTestEngine()
	wf := decode(t, legacyWorkflow)
	before := encode(t, wf)

	m, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), []string{"A2"})
	require.NoError(t, err)

	assert.Equal(t, 0, m.Report.Modified)
	assert.Equal(t, 1, m.Report.Count(model.KindMissingReplacementSpec))
	assert.Equal(t, []string{"A2"}, m.Targeted)
	assert.Empty(t, m.Renamed)
	assert.Equal(t, string(before), string(encode(t, wf)))
}

func TestMigrateReportsAbsentTargets(t *testing.T) {
	e, _ := newTestEngine()
	wf := decode(t, legacyWorkflow)

	m, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), []string{"A1", "Z9"})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Report.Modified)
	require.Equal(t, 1, m.Report.Count(model.KindNodeNotFound))
	assert.Contains(t, m.Report.Diagnostics[0].Message, "Z9")
}

func TestMigratePreservesCountAndIDs(t *testing.T) {
	cases := [][]string{nil, {"A0"}, {"A1"}, {"A0", "A1", "A2"}, {"missing"}}
	for _, targets := range cases {
		e, _ := newTestEngine()
		wf := decode(t, legacyWorkflow)
		ids := wf.IDs()

		_, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), targets)
		require.NoError(t, err)
		assert.Equal(t, ids, wf.IDs(), "targets %v", targets)
	}
}

func TestMigrateHonoursCancellation(t *testing.T) {
	e, _ := newTestEngine()
	wf := decode(t, legacyWorkflow)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Migrate(ctx, wf, mustCatalog(t, mcpCatalog), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "HTTP Call", wf.Node("A1").Name)
}
