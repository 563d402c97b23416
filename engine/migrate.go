package engine

import (
	"context"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

// Migration is the outcome of a migration pass.
type Migration struct {
	// Targeted holds the legacy ids found in the workflow, in document
	// order, whether or not a replacement existed for them.
	Targeted []string
	// Renamed maps a replaced node's old name to its new one.
	Renamed map[string]string
	Report  model.Report
}

// Migrate swaps the nodes whose id is in targets for their catalog
// replacement. The replacement keeps the legacy id; all other fields come
// from the catalog. A target with no catalog entry is kept as it was. The
// node count and order never change. With no targets, every id the catalog
// replaces is a target.
func (e *Engine) Migrate(ctx context.Context, wf *n8n.Workflow, catalog *Catalog, targets []string) (Migration, error) {
	if len(targets) == 0 {
		targets = catalog.IDs()
	}
	wanted := make(map[string]bool, len(targets))
	for _, id := range targets {
		wanted[id] = true
	}

	m := Migration{Renamed: map[string]string{}}
	seen := make(map[string]bool, len(targets))
	nodes := make([]n8n.Node, 0, len(wf.Nodes))
	for _, node := range wf.Nodes {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		if !wanted[node.ID] {
			nodes = append(nodes, node)
			continue
		}
		m.Targeted = append(m.Targeted, node.ID)
		seen[node.ID] = true

		repl, ok := catalog.Lookup(node.ID)
		if !ok {
			m.Report.Diagnose(model.KindMissingReplacementSpec, node.Name, "no replacement for id %s, node kept", node.ID)
			m.Report.Record(model.Outcome{Node: node.Name, Action: "kept", Detail: "no replacement"})
			e.emit(ctx, "node_kept", map[string]any{"id": node.ID, "node": node.Name})
			nodes = append(nodes, node)
			continue
		}

		next := repl.Node(node.ID)
		if next.Name != node.Name {
			m.Renamed[node.Name] = next.Name
		}
		m.Report.Record(model.Outcome{
			Node:    node.Name,
			Action:  "replaced",
			Changed: true,
			Detail:  node.Type + " -> " + next.Name + " (" + next.Type + ")",
		})
		e.emit(ctx, "node_replaced", map[string]any{"id": node.ID, "from": node.Name, "to": next.Name})
		nodes = append(nodes, next)
	}

	for _, id := range targets {
		if !seen[id] {
			m.Report.Diagnose(model.KindNodeNotFound, "", "target id %s is not in the workflow", id)
		}
	}

	wf.Nodes = nodes
	return m, nil
}
