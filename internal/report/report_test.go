package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

var today = time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

func sampleRecords() []task.Record {
	return []task.Record{
		{Title: "Ship billing migration", Priority: "P0", Status: task.StatusInProgress,
			NextAction: "Deploy", NextActionDue: "2025-01-16"},
		{Title: "Write Q1 roadmap", Priority: "P1", Status: task.StatusNotStarted,
			NextAction: "Outline", NextActionDue: "2025-01-20"},
		{Title: "Vendor contract", Priority: "P1", Status: task.StatusBlocked, BlockedBy: "legal"},
		{Title: "Old cleanup", Priority: "P2", Status: task.StatusDone},
	}
}

func TestCategorize(t *testing.T) {
	b := categorize(sampleRecords(), today)

	assert.Equal(t, 4, b.total)
	require.Len(t, b.dueToday, 1)
	assert.Equal(t, "Ship billing migration", b.dueToday[0].Title)
	require.Len(t, b.dueThisWeek, 1)
	assert.Equal(t, "Write Q1 roadmap", b.dueThisWeek[0].Title)
	assert.Len(t, b.blocked, 1)
	assert.Len(t, b.done, 1)
	assert.Len(t, b.p0, 1)
	assert.Len(t, b.p1, 1)
}

func TestCategorizeOverdueCountsAsToday(t *testing.T) {
	records := []task.Record{
		{Title: "Overdue", Status: task.StatusInProgress, NextActionDue: "2025-01-10"},
	}
	b := categorize(records, today)
	assert.Len(t, b.dueToday, 1)
}

func TestCategorizeBlockedExcludedFromDue(t *testing.T) {
	records := []task.Record{
		{Title: "Blocked", Status: task.StatusBlocked, Priority: "P0", NextActionDue: "2025-01-16"},
	}
	b := categorize(records, today)
	assert.Empty(t, b.dueToday)
	assert.Empty(t, b.p0)
	assert.Len(t, b.blocked, 1)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	gen := NewGenerator("", "", "", zap.NewNop())

	for _, kind := range []Kind{KindBriefing, KindClosing, KindWeekly} {
		body, err := gen.Generate(context.Background(), kind, sampleRecords(), nil, today)
		require.NoError(t, err)
		assert.Contains(t, body, notConfigured, "kind %s should degrade gracefully", kind)
		assert.Contains(t, body, "January 16, 2025")
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	gen := NewGenerator("", "", "", zap.NewNop())
	_, err := gen.Generate(context.Background(), Kind("nope"), nil, nil, today)
	assert.Error(t, err)
}

func TestBriefingSections(t *testing.T) {
	gen := NewGenerator("", "", "", zap.NewNop())
	body, err := gen.Generate(context.Background(), KindBriefing, sampleRecords(), nil, today)
	require.NoError(t, err)

	assert.Contains(t, body, "*☀️ Daily Briefing — Thursday, January 16, 2025*")
	assert.Contains(t, body, "*🎯 Actions Due Today*")
	assert.Contains(t, body, "Ship billing migration")
	// No activity fetched, no activity header.
	assert.NotContains(t, body, "*📊 Recent Activity*")
}

func sampleActivity() []jira.ActivityItem {
	return []jira.ActivityItem{
		{Key: "PLAT-42", Summary: "Billing rollout", Status: "In Progress"},
		{Key: "PLAT-40", Summary: "Invoice dedup", Status: "Done", Resolved: true},
	}
}

func TestBriefingIncludesRecentActivity(t *testing.T) {
	gen := NewGenerator("", "", "", zap.NewNop())
	body, err := gen.Generate(context.Background(), KindBriefing, sampleRecords(), sampleActivity(), today)
	require.NoError(t, err)

	assert.Contains(t, body, "*📊 Recent Activity*")
	assert.Contains(t, body, "Jira tickets updated: *2*")
	assert.Contains(t, body, "Resolved: *1*")
}

func TestClosingIncludesRecentActivity(t *testing.T) {
	gen := NewGenerator("", "", "", zap.NewNop())
	body, err := gen.Generate(context.Background(), KindClosing, sampleRecords(), sampleActivity(), today)
	require.NoError(t, err)
	assert.Contains(t, body, "*📊 Recent Activity*")
}

func TestBuildPromptActivitySection(t *testing.T) {
	b := categorize(sampleRecords(), today)

	prompt := buildPrompt(KindClosing, b, sampleActivity(), today)
	assert.Contains(t, prompt, "RECENT JIRA ACTIVITY:")
	assert.Contains(t, prompt, "• PLAT-42: Billing rollout [In Progress]")

	prompt = buildPrompt(KindBriefing, b, nil, today)
	assert.Contains(t, prompt, "_Jira activity unavailable_")
}

func TestActivityLinesCapped(t *testing.T) {
	items := make([]jira.ActivityItem, 15)
	for i := range items {
		items[i] = jira.ActivityItem{Key: fmt.Sprintf("PLAT-%d", i), Summary: "x", Status: "Open"}
	}
	lines := activityLines(items)
	assert.Equal(t, maxActivityLines, strings.Count(lines, "\n"))
	assert.NotContains(t, lines, "PLAT-14")
}
