package tools

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Args is the loosely-typed argument map of a tool call. Accessors
// return (value, true) only when the key is present and convertible to
// the requested type; handlers validate required keys at the boundary.
type Args map[string]any

// String returns the argument as a trimmed string.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Float returns the argument as a float64. JSON numbers decode as
// float64; numeric strings are accepted for tolerant callers.
func (a Args) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the argument as an int, truncating JSON floats.
func (a Args) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the argument as a bool.
func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		return false, false
	}
}

// StringSlice returns the argument as a list of strings. A bare string
// is treated as a single-element list.
func (a Args) StringSlice(key string) ([]string, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return nil, false
		}
		return []string{s}, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, len(out) > 0
	case []string:
		return s, len(s) > 0
	default:
		return nil, false
	}
}
