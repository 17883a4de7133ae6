package strings

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes anything that looks like a markup tag and trims the result.
//
// Example:
//
//	StripTags(" <b>Thandi</b> ")
//	// Returns: "Thandi"
func StripTags(value string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(value, ""))
}
