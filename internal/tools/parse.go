package tools

import (
	"encoding/json"
	"strings"
)

// ToolCallRequest is a decoded tool invocation.
type ToolCallRequest struct {
	Name      string `json:"name"`
	Arguments Args   `json:"arguments"`
}

// ParseToolCall extracts the first embedded tool call from free text.
// Each '{' opens a candidate object: braces are balanced character by
// character (string and escape aware) to find the matching close, and
// the substring is JSON-decoded. The first balanced object carrying a
// non-empty name wins, regardless of key order or whitespace. Returns
// nil when no candidate qualifies; this boundary never panics or
// propagates an error.
func ParseToolCall(text string) *ToolCallRequest {
	for start := 0; start < len(text); {
		open := strings.IndexByte(text[start:], '{')
		if open < 0 {
			return nil
		}
		open += start

		if end := balancedObjectEnd(text, open); end > 0 {
			var call ToolCallRequest
			if err := json.Unmarshal([]byte(text[open:end]), &call); err == nil && call.Name != "" {
				if call.Arguments == nil {
					call.Arguments = Args{}
				}
				return &call
			}
		}

		start = open + 1
	}
	return nil
}

// balancedObjectEnd returns the index just past the brace closing the
// object opened at start, or -1 when the braces never balance.
func balancedObjectEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}

	return -1
}
