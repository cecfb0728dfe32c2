// Package args splits and interprets the argument lists of form statements.
//
// Form statements are free-form, human-editable source; the splitter keeps
// every field verbatim (including surrounding whitespace) so that a later
// patch can write back all untouched fields byte-for-byte.
package args

import (
	"strconv"
	"strings"
)

// SplitParams splits a raw argument list on top-level commas only. Commas
// inside string literals or nested parentheses do not separate fields.
// Fields are returned raw, with their original whitespace preserved.
func SplitParams(raw string) []string {
	if raw == "" {
		return nil
	}

	fields := make([]string, 0, 8)
	depth := 0
	inString := false
	start := 0

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch == '"':
			inString = !inString
		case inString:
			// everything inside a literal is opaque
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			fields = append(fields, raw[start:i])
			start = i + 1
		}
	}
	fields = append(fields, raw[start:])
	return fields
}

// Unquote removes the surrounding quotes from a string literal and collapses
// doubled quote characters. Non-literal expressions pass through unchanged:
// the caller gets a best-effort display text either way.
func Unquote(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return raw
	}
	body := s[1 : len(s)-1]
	if !strings.Contains(body, `""`) {
		return body
	}
	return strings.ReplaceAll(body, `""`, `"`)
}

// AsNumber parses an integer or decimal field. The second return is false
// when the field is not a plain numeric literal; it never fails loudly
// because geometry fields are frequently expressions.
func AsNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsInt truncates a numeric field toward zero. Unparseable fields yield
// (0, false).
func AsInt(raw string) (int, bool) {
	n, ok := AsNumber(raw)
	if !ok {
		return 0, false
	}
	return int(n), true
}
