package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchFileRoundTrip(t *testing.T) {
	file := NewBatchFile(t.TempDir())

	batch := &Batch{
		Generated: time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
		Suggestions: []CardGroup{{
			Key:       "PLAT-42",
			JiraTitle: "Migrate billing service",
			TaskFile:  "Tasks/migrate-billing.md",
			Updates: []Candidate{{
				Type:       UpdateDueDate,
				Current:    "2025-01-09",
				Suggested:  "2025-01-16",
				Reason:     "local due date differs from Jira",
				Confidence: ConfidenceMedium,
			}},
		}},
	}
	require.NoError(t, file.Save(batch))

	loaded, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, batch, loaded)

	require.NoError(t, file.Delete())
	loaded, err = file.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting twice is fine.
	require.NoError(t, file.Delete())
}

func TestBatchLoadMissing(t *testing.T) {
	file := NewBatchFile(t.TempDir())
	batch, err := file.Load()
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestBatchStale(t *testing.T) {
	now := time.Now()
	fresh := &Batch{Generated: now.Add(-23 * time.Hour)}
	stale := &Batch{Generated: now.Add(-25 * time.Hour)}

	assert.False(t, fresh.Stale(now))
	assert.True(t, stale.Stale(now))
}
