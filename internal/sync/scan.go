package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/task"
)

// Scanner drives one reconciliation pass: extract keys from every open
// task record, fetch each linked issue, and collect update candidates
// into a batch. Fetches run strictly sequentially.
type Scanner struct {
	store   TaskStore
	tracker TrackerClient
	logger  *zap.Logger
}

// NewScanner creates a scanner over the given collaborators.
func NewScanner(store TaskStore, tracker TrackerClient, logger *zap.Logger) *Scanner {
	return &Scanner{
		store:   store,
		tracker: tracker,
		logger:  logger,
	}
}

// Scan builds a batch from the current local and remote state. Keys
// whose fetch fails are skipped with a warning; the scan itself only
// fails when the task store is unreadable. The returned batch may be
// empty.
func (s *Scanner) Scan(ctx context.Context, today time.Time) (*Batch, error) {
	records, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list task records: %w", err)
	}

	batch := &Batch{Generated: time.Now()}

	for _, rec := range records {
		if rec.Status == task.StatusDone {
			continue
		}
		keys := ExtractKeys(rec.Raw)
		if len(keys) == 0 {
			continue
		}

		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			snap, err := s.tracker.FetchIssue(key)
			if err != nil {
				s.logger.Warn("skipping unreachable issue",
					zap.String("key", key),
					zap.String("task_file", rec.Path),
					zap.Error(err),
				)
				continue
			}

			updates := Detect(rec, snap, today)
			if len(updates) == 0 {
				continue
			}

			batch.Suggestions = append(batch.Suggestions, CardGroup{
				Key:        snap.Key,
				JiraTitle:  snap.Summary,
				URL:        snap.URL,
				JiraStatus: snap.Status,
				TaskFile:   rec.Path,
				TaskTitle:  rec.Title,
				Updates:    updates,
			})
		}
	}

	s.logger.Info("scan complete",
		zap.Int("tasks", len(records)),
		zap.Int("suggestion_groups", len(batch.Suggestions)),
	)
	return batch, nil
}
