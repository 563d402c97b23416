package n8n

import "sort"

// Edge is one target of a connection, addressed by node name.
type Edge struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// Outputs maps an output type ("main", "ai_tool", ...) to one edge list per
// output slot.
type Outputs map[string][][]Edge

// Connections is the name-keyed adjacency map of a workflow.
type Connections map[string]Outputs

// Sources returns the source node names in sorted order.
func (c Connections) Sources() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Targets returns every edge leaving source, in output type then slot order.
func (c Connections) Targets(source string) []Edge {
	outs := c[source]
	kinds := make([]string, 0, len(outs))
	for kind := range outs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	var edges []Edge
	for _, kind := range kinds {
		for _, slot := range outs[kind] {
			edges = append(edges, slot...)
		}
	}
	return edges
}
