package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowpatch/model"
)

func TestValidateCleanWorkflow(t *testing.T) {
	wf := decode(t, legacyWorkflow)

	v := ValidateConnections(wf, nil)
	assert.Equal(t, 2, v.Examined)
	assert.Empty(t, v.Report.Diagnostics)
}

func TestValidateAfterRenameReportsDanglingEdges(t *testing.T) {
	e, _ := newTestEngine()
	wf := decode(t, legacyWorkflow)

	m, err := e.Migrate(context.Background(), wf, mustCatalog(t, mcpCatalog), []string{"A1"})
	require.NoError(t, err)

	v := ValidateConnections(wf, m.Renamed)
	assert.Equal(t, 2, v.Examined)
	require.Equal(t, 2, v.Report.Count(model.KindDanglingConnection))

	var sourceMsg, targetMsg string
	for _, d := range v.Report.Diagnostics {
		switch d.Node {
		case "HTTP Call":
			sourceMsg = d.Message
		case "Webhook":
			targetMsg = d.Message
		}
	}
	assert.Contains(t, sourceMsg, "connection source not found")
	assert.Contains(t, sourceMsg, `node A1 renamed to "MCP Call"`)
	assert.Contains(t, targetMsg, `edge target "HTTP Call" not found`)

	// connections are reported, never rewritten
	_, stillThere := wf.Connections["HTTP Call"]
	assert.True(t, stillThere)
}

func TestValidateReportsEachMissingTargetOnce(t *testing.T) {
	wf := decode(t, `{"nodes":[{"id":"a","name":"A"}],"connections":{
		"A":{"main":[[{"node":"Gone","type":"main","index":0}],[{"node":"Gone","type":"main","index":0}]]}
	}}`)

	v := ValidateConnections(wf, nil)
	assert.Equal(t, 1, v.Report.Count(model.KindDanglingConnection))
}

func TestValidateIncludesIndexDiagnostics(t *testing.T) {
	wf := decode(t, `{"nodes":[{"id":"a","name":"A"},{"id":"a","name":"B"}],"connections":{}}`)

	v := ValidateConnections(wf, nil)
	assert.Equal(t, 0, v.Examined)
	assert.Equal(t, 1, v.Report.Count(model.KindDuplicateNodeID))
}

func TestValidateFlagsUnknownOnError(t *testing.T) {
	wf := decode(t, `{"nodes":[
		{"id":"a","name":"A","onError":"continueErrorOutput"},
		{"id":"b","name":"B","onError":"ignoreAll"},
		{"id":"c","name":"C"}
	],"connections":{}}`)

	v := ValidateConnections(wf, nil)
	require.Equal(t, 1, v.Report.Count(model.KindInvalidOnError))
	assert.Equal(t, "B", v.Report.Diagnostics[0].Node)
	assert.Contains(t, v.Report.Diagnostics[0].Message, `"ignoreAll"`)
}
