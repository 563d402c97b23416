package engine

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"github.com/tidwall/gjson"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		catalogSchema, catalogSchemaErr = jsonschema.NewCompiler().Compile(catalogSchemaJSON)
	})
	return catalogSchema, catalogSchemaErr
}

// NodeConfig is the body of a replacement node.
type NodeConfig struct {
	Parameters  json.RawMessage `json:"parameters"`
	Type        string          `json:"type"`
	TypeVersion float64         `json:"typeVersion"`
	Position    []float64       `json:"position"`
	OnError     n8n.OnError     `json:"onError,omitempty"`
}

// Replacement describes the node that takes over a legacy node's id.
type Replacement struct {
	Replaces   string     `json:"replaces"`
	Name       string     `json:"name"`
	NodeConfig NodeConfig `json:"node_config"`
}

// Node builds the replacement node. It carries id, the legacy node's id;
// everything else comes from the replacement.
func (r Replacement) Node(id string) n8n.Node {
	params := append(json.RawMessage(nil), r.NodeConfig.Parameters...)
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	onError := r.NodeConfig.OnError
	if onError == "" {
		onError = n8n.OnErrorStopWorkflow
	}
	return n8n.Node{
		Parameters:  params,
		Type:        r.NodeConfig.Type,
		TypeVersion: r.NodeConfig.TypeVersion,
		Position:    append([]float64(nil), r.NodeConfig.Position...),
		ID:          id,
		Name:        r.Name,
		OnError:     onError,
	}
}

// Catalog is the set of replacements, keyed by the id they replace.
type Catalog struct {
	Replacements []Replacement
	byID         map[string]int
}

// Lookup returns the replacement for a legacy node id.
func (c *Catalog) Lookup(id string) (Replacement, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Replacement{}, false
	}
	return c.Replacements[i], true
}

// IDs returns every replaced id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Replacements))
	for i, r := range c.Replacements {
		ids[i] = r.Replaces
	}
	return ids
}

// ParseCatalog reads a replacement catalog. The document is either an array
// of replacements or an object whose array members hold them, e.g.
// {"mcp_wasender_nodes": [...]}. Every entry is checked against the catalog
// schema.
func ParseCatalog(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", model.ErrInvalidCatalog)
	}
	root := gjson.ParseBytes(data)

	var entries []gjson.Result
	switch {
	case root.IsArray():
		entries = root.Array()
	case root.IsObject():
		root.ForEach(func(_, value gjson.Result) bool {
			if !value.IsArray() {
				return true
			}
			for _, item := range value.Array() {
				if item.IsObject() && item.Get("replaces").Exists() {
					entries = append(entries, item)
				}
			}
			return true
		})
	default:
		return nil, fmt.Errorf("%w: expected an array or object", model.ErrInvalidCatalog)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no replacement entries", model.ErrInvalidCatalog)
	}

	schema, err := compiledCatalogSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	cat := &Catalog{byID: make(map[string]int, len(entries))}
	for i, entry := range entries {
		var doc any
		if err := json.Unmarshal([]byte(entry.Raw), &doc); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", model.ErrInvalidCatalog, i, err)
		}
		if result := schema.Validate(doc); !result.IsValid() {
			return nil, fmt.Errorf("%w: entry %d: %s", model.ErrInvalidCatalog, i, result.Error())
		}
		var r Replacement
		if err := json.Unmarshal([]byte(entry.Raw), &r); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", model.ErrInvalidCatalog, i, err)
		}
		if _, dup := cat.byID[r.Replaces]; dup {
			return nil, fmt.Errorf("%w: id %s replaced twice", model.ErrInvalidCatalog, r.Replaces)
		}
		cat.byID[r.Replaces] = len(cat.Replacements)
		cat.Replacements = append(cat.Replacements, r)
	}
	return cat, nil
}
