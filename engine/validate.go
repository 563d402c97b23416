package engine

import (
	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

// Validation is the outcome of a connection check.
type Validation struct {
	// Examined is the number of connection sources checked.
	Examined int
	Report   model.Report
}

// ValidateConnections checks the connection map against the live node names.
// Missing sources and missing edge targets are reported, never repaired.
// renamed (old name -> new name, as returned by Migrate) only enriches the
// messages. Duplicate ids and names found while indexing are reported too,
// as are onError values n8n does not know.
func ValidateConnections(wf *n8n.Workflow, renamed map[string]string) Validation {
	var v Validation
	ix := n8n.NewIndex(wf)
	v.Report.Diagnostics = append(v.Report.Diagnostics, ix.Diagnostics...)

	for _, n := range wf.Nodes {
		if !n.OnError.Valid() {
			v.Report.Diagnose(model.KindInvalidOnError, n.Name, "onError %q is not one of stopWorkflow, continueRegularOutput, continueErrorOutput", n.OnError)
		}
	}

	for _, source := range wf.Connections.Sources() {
		v.Examined++
		if _, ok := ix.ID(source); !ok {
			v.Report.Diagnose(model.KindDanglingConnection, source, "connection source not found%s", renameHint(ix, renamed, source))
		}
		reported := map[string]bool{}
		for _, edge := range wf.Connections.Targets(source) {
			if _, ok := ix.ID(edge.Node); ok || reported[edge.Node] {
				continue
			}
			reported[edge.Node] = true
			v.Report.Diagnose(model.KindDanglingConnection, source, "edge target %q not found%s", edge.Node, renameHint(ix, renamed, edge.Node))
		}
	}
	return v
}

func renameHint(ix *n8n.Index, renamed map[string]string, name string) string {
	to, ok := renamed[name]
	if !ok {
		return ""
	}
	if id, ok := ix.ID(to); ok {
		return " (node " + id + " renamed to \"" + to + "\")"
	}
	return " (node renamed to \"" + to + "\")"
}
