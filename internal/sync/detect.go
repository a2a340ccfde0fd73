package sync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

const (
	// maxCommentEntries bounds how many progress entries fold into one
	// suggested comment.
	maxCommentEntries = 3
	// maxEntryRunes bounds each folded entry's content.
	maxEntryRunes = 400
)

// terminalStatuses are remote statuses treated as synonymous with done.
var terminalStatuses = map[string]bool{
	"done":     true,
	"closed":   true,
	"resolved": true,
}

// Detect compares one local record against one remote snapshot and
// returns ranked update candidates. It is a pure function: the three
// checks run unconditionally in fixed order (comment, due date,
// transition), so identical inputs always yield the identical ordered
// list.
func Detect(rec task.Record, snap *jira.IssueSnapshot, today time.Time) []Candidate {
	var out []Candidate

	if c, ok := detectProgressComment(rec, snap, today); ok {
		out = append(out, c)
	}
	if c, ok := detectDueDateMismatch(rec, snap); ok {
		out = append(out, c)
	}
	if c, ok := detectTerminalMismatch(rec, snap); ok {
		out = append(out, c)
	}

	return out
}

// detectProgressComment fires when the local progress log has entries
// dated strictly after the remote's last comment. The cutoff compares
// calendar dates: an entry dated the same day as the last comment is
// considered already reflected remotely.
func detectProgressComment(rec task.Record, snap *jira.IssueSnapshot, today time.Time) (Candidate, bool) {
	latest, ok := rec.LatestProgress()
	if !ok {
		return Candidate{}, false
	}

	// No remote comment at all means any progress entry is newer.
	cutoff := time.Time{}
	if snap.HasLastComment() {
		cutoff = dateOf(snap.LastCommentDate)
	}

	if !latest.Date.After(cutoff) {
		return Candidate{}, false
	}

	recent := make([]task.ProgressEntry, 0, len(rec.Progress))
	for _, e := range rec.Progress {
		if e.Date.After(cutoff) {
			recent = append(recent, e)
		}
	}
	// Most recent first; ties keep original file order.
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > maxCommentEntries {
		recent = recent[:maxCommentEntries]
	}

	var sb strings.Builder
	sb.WriteString("Progress update (" + today.Format(task.DateFormat) + "):\n")
	for _, e := range recent {
		sb.WriteString("- " + e.Date.Format(task.DateFormat) + ": " + truncate(e.Content, maxEntryRunes) + "\n")
	}
	if rec.NextAction != "" {
		sb.WriteString("\nNext action: " + rec.NextAction)
		if rec.NextActionDue != "" {
			sb.WriteString(" (due " + rec.NextActionDue + ")")
		}
		sb.WriteString("\n")
	}

	return Candidate{
		Type:       UpdateComment,
		Content:    sb.String(),
		Reason:     fmt.Sprintf("local progress logged after last Jira comment (%d new entries)", len(recent)),
		Confidence: ConfidenceHigh,
	}, true
}

func detectDueDateMismatch(rec task.Record, snap *jira.IssueSnapshot) (Candidate, bool) {
	local := strings.TrimSpace(rec.DueDate)
	remote := strings.TrimSpace(snap.DueDate)

	if local == "" || local == remote {
		return Candidate{}, false
	}

	current := remote
	if current == "" {
		current = "not set"
	}

	return Candidate{
		Type:       UpdateDueDate,
		Current:    current,
		Suggested:  local,
		Reason:     "local due date differs from Jira",
		Confidence: ConfidenceMedium,
	}, true
}

func detectTerminalMismatch(rec task.Record, snap *jira.IssueSnapshot) (Candidate, bool) {
	if rec.Status != task.StatusDone {
		return Candidate{}, false
	}
	if terminalStatuses[strings.ToLower(snap.Status)] {
		return Candidate{}, false
	}

	return Candidate{
		Type:       UpdateTransition,
		Current:    snap.Status,
		Suggested:  "Done",
		Reason:     "task is done locally but the Jira issue is still open",
		Confidence: ConfidenceHigh,
	}, true
}

// dateOf truncates a timestamp to its calendar date, normalized to UTC
// midnight to match how progress-entry dates parse.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
