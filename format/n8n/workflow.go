package n8n

import (
	"encoding/json"
)

// Workflow is an n8n workflow document. Top-level members that are not
// modelled here (id, active, pinData, meta, tags, versionId, ...) are kept
// from the source bytes in their original position.
type Workflow struct {
	Name        string
	Nodes       []Node
	Connections Connections
	Settings    map[string]any
	StaticData  json.RawMessage

	raw  []byte
	snap map[string][]byte
}

type workflowJSON struct {
	Name        string          `json:"name"`
	Nodes       []Node          `json:"nodes"`
	Connections Connections     `json:"connections"`
	Settings    map[string]any  `json:"settings"`
	StaticData  json.RawMessage `json:"staticData"`
}

func (w Workflow) fields() []field {
	conns := w.Connections
	if conns == nil {
		conns = Connections{}
	}
	nodes := w.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	return []field{
		{key: "name", value: w.Name},
		{key: "nodes", value: nodes},
		{key: "connections", value: conns},
		{key: "settings", value: w.Settings, omitEmpty: true},
		{key: "staticData", value: w.StaticData, omitEmpty: true},
	}
}

func (w *Workflow) UnmarshalJSON(data []byte) error {
	var v workflowJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*w = Workflow{
		Name:        v.Name,
		Nodes:       v.Nodes,
		Connections: v.Connections,
		Settings:    v.Settings,
		StaticData:  append(json.RawMessage(nil), v.StaticData...),
		raw:         append([]byte(nil), data...),
	}
	snap, err := snapshot(w.fields())
	if err != nil {
		return err
	}
	w.snap = snap
	return nil
}

func (w Workflow) MarshalJSON() ([]byte, error) {
	return overlay(w.raw, w.snap, w.fields())
}

// Node returns a pointer to the node with the given id, or nil.
func (w *Workflow) Node(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}

// IDs returns node ids in document order.
func (w *Workflow) IDs() []string {
	ids := make([]string, len(w.Nodes))
	for i, n := range w.Nodes {
		ids[i] = n.ID
	}
	return ids
}
