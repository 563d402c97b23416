package n8n

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// OnError is the node-level error policy understood by n8n.
type OnError string

const (
	OnErrorStopWorkflow          OnError = "stopWorkflow"
	OnErrorContinueRegularOutput OnError = "continueRegularOutput"
	OnErrorContinueErrorOutput   OnError = "continueErrorOutput"
)

// Valid reports whether p is empty or one of the known policies.
func (p OnError) Valid() bool {
	switch p {
	case "", OnErrorStopWorkflow, OnErrorContinueRegularOutput, OnErrorContinueErrorOutput:
		return true
	}
	return false
}

// Node is one step of a workflow. Members the engine does not model
// (credentials, webhookId, disabled, notes, ...) are kept from the source
// bytes, as is the key order inside Parameters.
type Node struct {
	Parameters  json.RawMessage
	Type        string
	TypeVersion float64
	Position    []float64
	ID          string
	Name        string
	OnError     OnError

	raw  []byte
	snap map[string][]byte
}

type nodeJSON struct {
	Parameters  json.RawMessage `json:"parameters"`
	Type        string          `json:"type"`
	TypeVersion float64         `json:"typeVersion"`
	Position    []float64       `json:"position"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	OnError     OnError         `json:"onError"`
}

func (n Node) fields() []field {
	params := n.Parameters
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	return []field{
		{key: "parameters", value: params},
		{key: "type", value: n.Type},
		{key: "typeVersion", value: n.TypeVersion},
		{key: "position", value: n.Position},
		{key: "id", value: n.ID},
		{key: "name", value: n.Name},
		{key: "onError", value: n.OnError, omitEmpty: true},
	}
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var v nodeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Node{
		Parameters:  append(json.RawMessage(nil), v.Parameters...),
		Type:        v.Type,
		TypeVersion: v.TypeVersion,
		Position:    v.Position,
		ID:          v.ID,
		Name:        v.Name,
		OnError:     v.OnError,
		raw:         append([]byte(nil), data...),
	}
	snap, err := snapshot(n.fields())
	if err != nil {
		return err
	}
	n.snap = snap
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	return overlay(n.raw, n.snap, n.fields())
}

// Param looks up a value under the node's parameters using a gjson path.
func (n *Node) Param(path string) gjson.Result {
	return gjson.GetBytes(n.Parameters, path)
}

// SetParamString writes a string value under the node's parameters. Sibling
// keys keep their order.
func (n *Node) SetParamString(path, value string) error {
	params := []byte(n.Parameters)
	if len(params) == 0 {
		params = []byte("{}")
	}
	enc, err := Marshal(value)
	if err != nil {
		return err
	}
	out, err := sjson.SetRawBytes(params, path, enc)
	if err != nil {
		return fmt.Errorf("set parameters.%s on %q: %w", path, n.Name, err)
	}
	n.Parameters = out
	return nil
}
