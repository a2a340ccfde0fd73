// Package task models the locally authored task records kept as
// markdown files with YAML frontmatter and a chronological progress log.
package task

import (
	"time"
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// statusCodes maps the short frontmatter codes to statuses. "s" is the
// legacy in-progress code still present in older records.
var statusCodes = map[string]Status{
	"n":  StatusNotStarted,
	"s":  StatusInProgress,
	"ip": StatusInProgress,
	"b":  StatusBlocked,
	"d":  StatusDone,
}

// ParseStatus maps a frontmatter status code to a Status. Unknown codes
// default to not-started.
func ParseStatus(code string) Status {
	if s, ok := statusCodes[code]; ok {
		return s
	}
	return StatusNotStarted
}

// ProgressEntry is one dated line from a record's progress log.
// Entries keep their original file order; they are not pre-sorted.
type ProgressEntry struct {
	Date    time.Time
	Content string
}

// Record is one parsed task file.
type Record struct {
	Path            string
	Title           string
	Priority        string
	Status          Status
	DueDate         string
	NextAction      string
	NextActionDue   string
	BlockedBy       string
	BlockedType     string
	BlockedExpected string
	Progress        []ProgressEntry
	Raw             string
}

// LatestProgress returns the most recent progress entry, or false when
// the log is empty. Ties on the max date resolve to the entry appearing
// first in the file.
func (r Record) LatestProgress() (ProgressEntry, bool) {
	if len(r.Progress) == 0 {
		return ProgressEntry{}, false
	}
	latest := r.Progress[0]
	for _, e := range r.Progress[1:] {
		if e.Date.After(latest.Date) {
			latest = e
		}
	}
	return latest, true
}
