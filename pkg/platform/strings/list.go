// Package strings holds the small text helpers shared by configuration and
// CSV ingestion.
package strings

import "strings"

// SplitList turns a comma separated setting such as "a, b,,a" into its
// distinct trimmed entries in first-seen order. A blank value yields nil.
func SplitList(value string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
