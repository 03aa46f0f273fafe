package genai

import "strings"

// StripFences removes a surrounding markdown code fence from a backend
// response. Language tags on the opening fence (```python, ```json, ```html)
// are discarded. Text without a fence is returned trimmed.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)

	idx := strings.Index(trimmed, "```")
	if idx < 0 {
		return trimmed
	}

	rest := trimmed[idx+3:]

	// Drop the language tag up to the first newline, if any.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		// Single-line fence such as ```code```.
		rest = strings.TrimPrefix(rest, "```")
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}

	return strings.TrimSpace(rest)
}
