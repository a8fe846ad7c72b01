package slug

import "strings"

// Make derives the URL-safe identifier for an article title: lower-cased,
// with every whitespace run collapsed to a single hyphen. The slug is a pure
// function of the title and is recomputed whenever the title changes.
func Make(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
