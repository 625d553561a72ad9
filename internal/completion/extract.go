package completion

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no decodable JSON span exists in a
// response even after repair.
var ErrNoJSON = errors.New("no JSON found in response")

// StripFences removes markdown code fences around a response. Models
// routinely wrap JSON in ```json ... ``` despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ExtractJSON locates the first balanced {...} or [...] span in a
// response, which handles prose before/after the payload.
func ExtractJSON(s string) string {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')
	start := objStart
	open, close := byte('{'), byte('}')
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		open, close = '[', ']'
	}
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// Decode parses a model response into v, repairing common damage:
// markdown fences, leading/trailing prose, trailing commas. It makes
// up to attempts passes, each stripping more aggressively, before
// giving up. Callers fall back to deterministic defaults on error;
// malformed output is never a user-visible failure.
func Decode(response string, v interface{}, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	candidate := strings.TrimSpace(response)
	var lastErr error
	for i := 0; i < attempts; i++ {
		switch i {
		case 0:
			// As-is.
		case 1:
			candidate = StripFences(response)
		default:
			candidate = removeTrailingCommas(ExtractJSON(StripFences(response)))
		}
		if candidate == "" {
			lastErr = ErrNoJSON
			continue
		}
		if err := json.Unmarshal([]byte(candidate), v); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// removeTrailingCommas deletes commas that directly precede a closing
// brace/bracket outside of strings.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
