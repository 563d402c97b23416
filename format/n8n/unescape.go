package n8n

import (
	"bytes"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// unescapeNonASCII rewrites \uXXXX escapes of non-ASCII characters inside
// JSON strings as literal UTF-8, the way n8n exports them. Raw members
// carried over from the input keep whatever escaping the input used, so
// this runs once over the encoded document. ASCII escapes, lone surrogates
// and U+2028/U+2029 stay escaped.
func unescapeNonASCII(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); {
		c := data[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			i++
			continue
		}
		switch c {
		case '"':
			inString = false
			out = append(out, c)
			i++
		case '\\':
			if r, n := decodeEscape(data[i:]); n > 0 {
				out = utf8.AppendRune(out, r)
				i += n
				continue
			}
			end := min(i+2, len(data))
			out = append(out, data[i:end]...)
			i = end
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// decodeEscape reads a \uXXXX escape (or a surrogate pair of them) at the
// start of b. It returns n == 0 when the escape must be kept as is.
func decodeEscape(b []byte) (rune, int) {
	r, ok := hex4(b)
	if !ok || r < utf8.RuneSelf || r == '\u2028' || r == '\u2029' {
		return 0, 0
	}
	if !utf16.IsSurrogate(r) {
		return r, 6
	}
	lo, ok := hex4(b[6:])
	if !ok {
		return 0, 0
	}
	if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
		return pair, 12
	}
	return 0, 0
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[2:6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
