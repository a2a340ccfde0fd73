package sync

import (
	"fmt"
	"os"
	"os/exec"
)

// Editor opens a template in the operator's editor and returns the
// edited text. The pluggable interface keeps the review loop testable
// without a terminal.
type Editor interface {
	Edit(template string) (string, error)
}

// ShellEditor spawns $VISUAL, then $EDITOR, falling back to vi, over a
// temp file.
type ShellEditor struct{}

// Edit writes the template to a temp file, runs the editor on it, and
// returns the resulting contents.
func (ShellEditor) Edit(template string) (string, error) {
	f, err := os.CreateTemp("", "logbook-edit-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(template); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write template: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}
