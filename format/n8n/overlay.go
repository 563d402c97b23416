package n8n

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// field is one modelled JSON member of an object the package decodes while
// keeping the original bytes around.
type field struct {
	key       string
	value     any
	omitEmpty bool
}

// Marshal encodes v without HTML escaping and without the trailing newline
// json.Encoder adds.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func snapshot(fields []field) (map[string][]byte, error) {
	snap := make(map[string][]byte, len(fields))
	for _, f := range fields {
		enc, err := Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		snap[f.key] = enc
	}
	return snap, nil
}

func isEmptyJSON(b []byte) bool {
	switch string(b) {
	case "null", `""`, "{}", "[]":
		return true
	}
	return false
}

// overlay rewrites the modelled fields onto raw. Members whose encoding still
// matches the decode-time snapshot are left as they were, so untouched
// objects come back byte-for-byte and key order survives. New members are
// appended in the order given.
func overlay(raw []byte, snap map[string][]byte, fields []field) ([]byte, error) {
	out := []byte("{}")
	if len(raw) > 0 {
		out = append([]byte(nil), raw...)
	}
	for _, f := range fields {
		enc, err := Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		if prev, ok := snap[f.key]; ok && bytes.Equal(prev, enc) {
			continue
		}
		if f.omitEmpty && isEmptyJSON(enc) {
			if gjson.GetBytes(out, f.key).Exists() {
				if out, err = sjson.DeleteBytes(out, f.key); err != nil {
					return nil, fmt.Errorf("delete %s: %w", f.key, err)
				}
			}
			continue
		}
		if out, err = sjson.SetRawBytes(out, f.key, enc); err != nil {
			return nil, fmt.Errorf("set %s: %w", f.key, err)
		}
	}
	return out, nil
}
