package sync

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Executor turns an approved candidate into a remote mutation.
type Executor struct {
	tracker TrackerClient
	logger  *zap.Logger
}

// NewExecutor creates an executor against the given tracker.
func NewExecutor(tracker TrackerClient, logger *zap.Logger) *Executor {
	return &Executor{tracker: tracker, logger: logger}
}

// Execute dispatches the candidate to the matching tracker primitive.
// Errors are reported to the caller, which handles the fallback; no
// retries happen at this layer.
func (e *Executor) Execute(key string, cand Candidate) error {
	switch cand.Type {
	case UpdateComment:
		return e.tracker.PostComment(key, cand.Content)
	case UpdateDueDate:
		return e.tracker.UpdateDueDate(key, cand.Suggested)
	case UpdateTransition:
		return e.transition(key, cand.Suggested)
	default:
		return fmt.Errorf("unknown update type %q", cand.Type)
	}
}

// transition resolves the requested target against the issue's
// currently available transitions, matching case-insensitively on the
// transition name or its destination state.
func (e *Executor) transition(key, target string) error {
	transitions, err := e.tracker.Transitions(key)
	if err != nil {
		return fmt.Errorf("failed to list transitions: %w", err)
	}

	for _, t := range transitions {
		if strings.EqualFold(t.Name, target) || strings.EqualFold(t.ToName, target) {
			return e.tracker.DoTransition(key, t.ID)
		}
	}

	names := make([]string, 0, len(transitions))
	for _, t := range transitions {
		names = append(names, t.Name)
	}
	return fmt.Errorf("no transition to %q available (have: %s)", target, strings.Join(names, ", "))
}

// Fallback puts the update's human-readable content on the clipboard
// and prints the issue URL so the operator can apply it by hand.
// Clipboard failures are logged, not fatal.
func (e *Executor) Fallback(url string, cand Candidate) {
	text := FallbackText(cand)

	if err := clipboard.WriteAll(text); err != nil {
		e.logger.Warn("failed to copy fallback text to clipboard", zap.Error(err))
		fmt.Println("Could not copy to clipboard. Apply manually:")
		fmt.Println(text)
	} else {
		fmt.Println("Update copied to clipboard.")
	}
	fmt.Printf("Apply it at: %s\n", url)
}

// FallbackText formats a candidate for manual application.
func FallbackText(cand Candidate) string {
	switch cand.Type {
	case UpdateDueDate:
		return "Due date: " + cand.Suggested
	case UpdateTransition:
		return "Status: " + cand.Suggested
	default:
		return cand.Content
	}
}
