package sync

import (
	"regexp"
)

// issueKeyRe matches a Jira issue key, either bare in prose or embedded
// in a markdown link or browse URL. Keys look like PROJ-123.
var issueKeyRe = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)

// ExtractKeys returns the issue keys referenced anywhere in a task
// record's text, deduplicated in order of first appearance. Text with
// no keys yields an empty slice, never an error.
func ExtractKeys(text string) []string {
	matches := issueKeyRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	keys := make([]string, 0, len(matches))
	for _, key := range matches {
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
