package http

import (
	"strings"
)

// sanitizeInput strips control characters except tab, newline and carriage
// return, and trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// splitValues flattens repeated and comma-separated query values, dropping
// blanks and duplicates while keeping first-seen order.
func splitValues(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = sanitizeInput(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
