// Package sync implements the reconciliation engine that compares local
// task records against their linked Jira issues and drives a
// human-reviewed apply loop over the resulting update suggestions.
package sync

import (
	"time"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

// UpdateType classifies a proposed remote mutation.
type UpdateType string

const (
	UpdateComment    UpdateType = "comment"
	UpdateDueDate    UpdateType = "due_date"
	UpdateTransition UpdateType = "transition"
)

// Confidence ranks how certain the detector is about a suggestion.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Candidate is one proposed remote mutation. Comment candidates carry
// Content; due_date and transition candidates carry Current/Suggested.
type Candidate struct {
	Type       UpdateType `json:"type"`
	Content    string     `json:"content,omitempty"`
	Current    string     `json:"current,omitempty"`
	Suggested  string     `json:"suggested,omitempty"`
	Reason     string     `json:"reason"`
	Confidence Confidence `json:"confidence"`
}

// CardGroup holds all candidates for one Jira issue and its linked
// local task.
type CardGroup struct {
	Key        string      `json:"key"`
	JiraTitle  string      `json:"jira_title"`
	URL        string      `json:"url"`
	JiraStatus string      `json:"jira_status"`
	TaskFile   string      `json:"task_file"`
	TaskTitle  string      `json:"task_title"`
	Updates    []Candidate `json:"updates"`
}

// Batch is a persisted, resumable queue of card groups awaiting review.
type Batch struct {
	Generated   time.Time   `json:"generated"`
	Suggestions []CardGroup `json:"suggestions"`
}

// Empty reports whether the batch contains no suggestions at all.
func (b *Batch) Empty() bool {
	return len(b.Suggestions) == 0
}

// Stale reports whether the batch is older than the review cutoff.
func (b *Batch) Stale(now time.Time) bool {
	return now.Sub(b.Generated) > 24*time.Hour
}

// TrackerClient is the remote issue-tracker surface the engine consumes.
// *jira.Client satisfies it; tests substitute a stub.
type TrackerClient interface {
	FetchIssue(key string) (*jira.IssueSnapshot, error)
	PostComment(key, body string) error
	UpdateDueDate(key, date string) error
	Transitions(key string) ([]jira.Transition, error)
	DoTransition(key, transitionID string) error
}

// TaskStore is the local task-record surface the engine consumes.
// *task.Store satisfies it.
type TaskStore interface {
	List() ([]task.Record, error)
	AppendProgress(path, line string) error
}
