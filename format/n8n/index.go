package n8n

import (
	"github.com/Tsinling0525/flowpatch/model"
)

// Index is the two-way id <-> name join over a workflow's nodes. Build a new
// one after every pass that may rename or replace nodes.
type Index struct {
	byID   map[string]string
	byName map[string]string

	Diagnostics []model.Diagnostic
}

func NewIndex(wf *Workflow) *Index {
	ix := &Index{
		byID:   make(map[string]string, len(wf.Nodes)),
		byName: make(map[string]string, len(wf.Nodes)),
	}
	for _, n := range wf.Nodes {
		if prev, ok := ix.byID[n.ID]; ok {
			ix.Diagnostics = append(ix.Diagnostics, model.Diagnostic{
				Kind:    model.KindDuplicateNodeID,
				Node:    n.Name,
				Message: "id " + n.ID + " already used by " + prev,
			})
		} else {
			ix.byID[n.ID] = n.Name
		}
		if prev, ok := ix.byName[n.Name]; ok {
			ix.Diagnostics = append(ix.Diagnostics, model.Diagnostic{
				Kind:    model.KindDuplicateNodeName,
				Node:    n.Name,
				Message: "name shared by ids " + prev + " and " + n.ID,
			})
		} else {
			ix.byName[n.Name] = n.ID
		}
	}
	return ix
}

// ID returns the id of the node with the given name.
func (ix *Index) ID(name string) (string, bool) {
	id, ok := ix.byName[name]
	return id, ok
}
