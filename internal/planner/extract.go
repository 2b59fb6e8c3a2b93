package planner

import (
	"errors"
	"strings"
)

// extractJSON finds the first balanced JSON object in s, unwrapping a
// Markdown code fence first if the content arrives inside one. Braces inside
// string literals are ignored.
func extractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)

	if inner, ok := stripCodeFence(s); ok {
		s = strings.TrimSpace(inner)
	}

	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", errors.New("no JSON object found")
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced JSON object")
}

// stripCodeFence removes a leading ``` or ~~~ fence (with an optional
// language tag) and returns the fenced body.
func stripCodeFence(s string) (string, bool) {
	fence := ""
	switch {
	case strings.HasPrefix(s, "```"):
		fence = "```"
	case strings.HasPrefix(s, "~~~"):
		fence = "~~~"
	default:
		return "", false
	}
	rest := s[len(fence):]
	nl := strings.IndexByte(rest, '\n')
	if nl == -1 {
		return "", false
	}
	rest = rest[nl+1:]
	if end := strings.Index(rest, fence); end != -1 {
		return rest[:end], true
	}
	return "", false
}
