package sync

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

// stubTracker serves canned snapshots and records mutations.
type stubTracker struct {
	snapshots   map[string]*jira.IssueSnapshot
	transitions map[string][]jira.Transition

	comments       []string
	dueDates       []string
	transitionsRun []string

	failComments bool
	fetches      int
}

func (s *stubTracker) FetchIssue(key string) (*jira.IssueSnapshot, error) {
	s.fetches++
	snap, ok := s.snapshots[key]
	if !ok {
		return nil, fmt.Errorf("issue %s not found", key)
	}
	copied := *snap
	return &copied, nil
}

func (s *stubTracker) PostComment(key, body string) error {
	if s.failComments {
		return fmt.Errorf("comment rejected")
	}
	s.comments = append(s.comments, key+": "+body)
	return nil
}

func (s *stubTracker) UpdateDueDate(key, date string) error {
	s.dueDates = append(s.dueDates, key+": "+date)
	return nil
}

func (s *stubTracker) Transitions(key string) ([]jira.Transition, error) {
	return s.transitions[key], nil
}

func (s *stubTracker) DoTransition(key, transitionID string) error {
	s.transitionsRun = append(s.transitionsRun, key+": "+transitionID)
	return nil
}

// memStore serves fixed records and records audit lines.
type memStore struct {
	records []task.Record
	audits  []string
}

func (s *memStore) List() ([]task.Record, error) {
	return s.records, nil
}

func (s *memStore) AppendProgress(path, line string) error {
	s.audits = append(s.audits, path+" :: "+line)
	return nil
}

func record(path, due string, status task.Status, body string) task.Record {
	return task.Record{
		Path:    path,
		Title:   path,
		Status:  status,
		DueDate: due,
		Raw:     body,
	}
}

func TestScanBuildsBatch(t *testing.T) {
	tracker := &stubTracker{snapshots: map[string]*jira.IssueSnapshot{
		"PLAT-42": {Key: "PLAT-42", Summary: "Billing", Status: "In Progress", DueDate: "2025-01-09",
			URL: "https://example.atlassian.net/browse/PLAT-42"},
	}}
	store := &memStore{records: []task.Record{
		record("Tasks/billing.md", "2025-01-16", task.StatusInProgress, "tracked in PLAT-42"),
	}}

	scanner := NewScanner(store, tracker, zap.NewNop())
	batch, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, batch.Suggestions, 1)
	card := batch.Suggestions[0]
	assert.Equal(t, "PLAT-42", card.Key)
	assert.Equal(t, "Tasks/billing.md", card.TaskFile)
	require.Len(t, card.Updates, 1)
	assert.Equal(t, UpdateDueDate, card.Updates[0].Type)
}

func TestScanSkipsDoneAndKeyless(t *testing.T) {
	tracker := &stubTracker{snapshots: map[string]*jira.IssueSnapshot{
		"PLAT-42": {Key: "PLAT-42", Status: "In Progress"},
	}}
	store := &memStore{records: []task.Record{
		record("Tasks/done.md", "2025-01-16", task.StatusDone, "references PLAT-42"),
		record("Tasks/nokeys.md", "2025-01-16", task.StatusInProgress, "nothing linked"),
	}}

	scanner := NewScanner(store, tracker, zap.NewNop())
	batch, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)

	assert.True(t, batch.Empty())
	assert.Zero(t, tracker.fetches, "done and keyless records should not trigger fetches")
}

func TestScanSkipsUnreachableIssues(t *testing.T) {
	tracker := &stubTracker{snapshots: map[string]*jira.IssueSnapshot{
		"PLAT-42": {Key: "PLAT-42", Status: "In Progress", DueDate: "2025-01-09"},
	}}
	store := &memStore{records: []task.Record{
		record("Tasks/billing.md", "2025-01-16", task.StatusInProgress, "PLAT-42 and GONE-1"),
	}}

	scanner := NewScanner(store, tracker, zap.NewNop())
	batch, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, batch.Suggestions, 1)
	assert.Equal(t, "PLAT-42", batch.Suggestions[0].Key)
}

func TestScanIsIdempotent(t *testing.T) {
	tracker := &stubTracker{snapshots: map[string]*jira.IssueSnapshot{
		"PLAT-42": {Key: "PLAT-42", Status: "In Progress", DueDate: "2025-01-09"},
	}}
	store := &memStore{records: []task.Record{
		record("Tasks/billing.md", "2025-01-16", task.StatusInProgress, "PLAT-42"),
	}}

	scanner := NewScanner(store, tracker, zap.NewNop())
	first, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)
	second, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, first.Suggestions, second.Suggestions)
}

func TestScanNoMatchingRecordsYieldsEmptyBatch(t *testing.T) {
	store := &memStore{}
	scanner := NewScanner(store, &stubTracker{}, zap.NewNop())

	batch, err := scanner.Scan(context.Background(), today)
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}
