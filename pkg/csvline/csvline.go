// Package csvline parses and formats single delimited lines.
//
// Unlike encoding/csv this parser never fails: an unterminated quote keeps
// the rest of the line as literal field content, which is what tolerant
// spreadsheet exports need.
package csvline

import "strings"

// Parse splits a line on commas that are not inside double quotes. A doubled
// quote inside a quoted field yields one literal quote. The result always has
// at least one element.
func Parse(line string) []string {
	fields := make([]string, 0, strings.Count(line, ",")+1)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, current.String())
}

// Format renders fields as one line, quoting every field and doubling
// embedded quotes, so that Parse(Format(fields)) returns fields for any
// input without raw newlines.
func Format(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(f))
	}
	return b.String()
}

// Quote wraps a single field in quotes, doubling embedded quotes.
func Quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Field returns the trimmed field at index i, or "" when the row is shorter.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
