package validator

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanText trims whitespace and strips markup tags from inbound parameters
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanLower cleans a string and lowercases it, used for network names
func CleanLower(s string) string {
	return strings.ToLower(CleanText(s))
}
