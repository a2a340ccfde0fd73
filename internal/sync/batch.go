package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// batchFileName is the single persisted review queue. At most one batch
// exists at a time: a new scan replaces it wholesale.
const batchFileName = "jira-sync-batch.json"

// BatchFile persists the active sync batch under a state directory.
type BatchFile struct {
	path string
}

// NewBatchFile returns the batch store rooted at stateDir.
func NewBatchFile(stateDir string) *BatchFile {
	return &BatchFile{path: filepath.Join(stateDir, batchFileName)}
}

// Path returns the underlying file path.
func (f *BatchFile) Path() string {
	return f.path
}

// Save writes the batch, replacing any previous one.
func (f *BatchFile) Save(batch *Batch) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write batch file: %w", err)
	}
	return nil
}

// Load reads the persisted batch. A missing file returns (nil, nil).
func (f *BatchFile) Load() (*Batch, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return &batch, nil
}

// Delete removes the persisted batch. Deleting an absent batch is not
// an error.
func (f *BatchFile) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete batch file: %w", err)
	}
	return nil
}
