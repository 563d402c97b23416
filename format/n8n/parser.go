package n8n

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/Tsinling0525/flowpatch/model"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Decode parses a workflow document. It fails with model.ErrMalformedDocument
// when data is not a JSON object or has no nodes array.
func Decode(data []byte) (*Workflow, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", model.ErrMalformedDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", model.ErrMalformedDocument)
	}
	if !root.Get("nodes").IsArray() {
		return nil, fmt.Errorf("%w: missing nodes array", model.ErrMalformedDocument)
	}
	var wf Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}
	return &wf, nil
}

// Encode renders wf as two-space indented JSON. HTML characters and
// non-ASCII text are written as-is.
func Encode(wf *Workflow) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wf); err != nil {
		return nil, fmt.Errorf("encode workflow %q: %w", wf.Name, err)
	}
	return unescapeNonASCII(buf.Bytes()), nil
}

// Clone returns a deep copy that shares no memory with wf.
func (w *Workflow) Clone() (*Workflow, error) {
	data, err := Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("clone workflow %q: %w", w.Name, err)
	}
	return Decode(data)
}
