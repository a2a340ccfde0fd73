package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/jira"
)

func TestExecuteComment(t *testing.T) {
	tracker := &stubTracker{}
	exec := NewExecutor(tracker, zap.NewNop())

	err := exec.Execute("PLAT-42", Candidate{Type: UpdateComment, Content: "Progress update"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAT-42: Progress update"}, tracker.comments)
}

func TestExecuteDueDate(t *testing.T) {
	tracker := &stubTracker{}
	exec := NewExecutor(tracker, zap.NewNop())

	err := exec.Execute("PLAT-42", Candidate{Type: UpdateDueDate, Suggested: "2025-01-16"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAT-42: 2025-01-16"}, tracker.dueDates)
}

func TestExecuteTransitionMatchesCaseInsensitively(t *testing.T) {
	tracker := &stubTracker{transitions: map[string][]jira.Transition{
		"PLAT-42": {
			{ID: "11", Name: "Start Progress", ToName: "In Progress"},
			{ID: "31", Name: "Close issue", ToName: "DONE"},
		},
	}}
	exec := NewExecutor(tracker, zap.NewNop())

	err := exec.Execute("PLAT-42", Candidate{Type: UpdateTransition, Suggested: "Done"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAT-42: 31"}, tracker.transitionsRun)
}

func TestExecuteTransitionMatchesTransitionName(t *testing.T) {
	tracker := &stubTracker{transitions: map[string][]jira.Transition{
		"PLAT-42": {{ID: "21", Name: "done", ToName: "Finished"}},
	}}
	exec := NewExecutor(tracker, zap.NewNop())

	err := exec.Execute("PLAT-42", Candidate{Type: UpdateTransition, Suggested: "Done"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAT-42: 21"}, tracker.transitionsRun)
}

func TestExecuteTransitionNoMatchSurfacesNames(t *testing.T) {
	tracker := &stubTracker{transitions: map[string][]jira.Transition{
		"PLAT-42": {
			{ID: "11", Name: "Start Progress", ToName: "In Progress"},
			{ID: "12", Name: "Block", ToName: "Blocked"},
		},
	}}
	exec := NewExecutor(tracker, zap.NewNop())

	err := exec.Execute("PLAT-42", Candidate{Type: UpdateTransition, Suggested: "Done"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Start Progress")
	assert.Contains(t, err.Error(), "Block")
	assert.Empty(t, tracker.transitionsRun)
}

func TestFallbackText(t *testing.T) {
	assert.Equal(t, "Due date: 2025-01-16", FallbackText(Candidate{Type: UpdateDueDate, Suggested: "2025-01-16"}))
	assert.Equal(t, "Status: Done", FallbackText(Candidate{Type: UpdateTransition, Suggested: "Done"}))
	assert.Equal(t, "body", FallbackText(Candidate{Type: UpdateComment, Content: "body"}))
}
