package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

// buckets groups task records the way the reports present them.
type buckets struct {
	all         []task.Record
	dueToday    []task.Record
	dueThisWeek []task.Record
	blocked     []task.Record
	p0          []task.Record
	p1          []task.Record
	done        []task.Record
	total       int
}

// categorize sorts records into the report buckets. Next-action due
// dates that fail to parse are ignored for the due buckets.
func categorize(records []task.Record, today time.Time) buckets {
	var b buckets
	b.total = len(records)
	weekEnd := today.AddDate(0, 0, 7)

	for _, rec := range records {
		b.all = append(b.all, rec)

		switch rec.Status {
		case task.StatusBlocked:
			b.blocked = append(b.blocked, rec)
			continue
		case task.StatusDone:
			b.done = append(b.done, rec)
			continue
		}

		if rec.NextActionDue != "" {
			if due, err := time.Parse(task.DateFormat, rec.NextActionDue); err == nil {
				if !due.After(today) {
					b.dueToday = append(b.dueToday, rec)
				} else if !due.After(weekEnd) {
					b.dueThisWeek = append(b.dueThisWeek, rec)
				}
			}
		}

		switch rec.Priority {
		case "P0":
			b.p0 = append(b.p0, rec)
		case "P1":
			b.p1 = append(b.p1, rec)
		}
	}
	return b
}

var statusEmoji = map[task.Status]string{
	task.StatusNotStarted: "🔴",
	task.StatusInProgress: "🟡",
	task.StatusBlocked:    "🟠",
	task.StatusDone:       "✅",
}

func bulletTasks(records []task.Record) string {
	if len(records) == 0 {
		return "• (none)\n"
	}
	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("• %s [%s] %s — %s\n",
			statusEmoji[rec.Status], rec.Priority, rec.Title, rec.Status))
	}
	return sb.String()
}

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

func renderBriefing(b buckets, activity []jira.ActivityItem, analysis string, today time.Time) string {
	var sb strings.Builder
	sb.WriteString("*☀️ Daily Briefing — " + today.Format("Monday, January 2, 2006") + "*\n\n")

	sb.WriteString(renderActivityHeader(activity))
	sb.WriteString("*📋 Today's Focus*\n")
	sb.WriteString(fmt.Sprintf("• 🚨 P0 (Do Today): *%d*\n", len(b.p0)))
	sb.WriteString(fmt.Sprintf("• ⚡ P1 (This Week): *%d*\n", len(b.p1)))
	if len(b.blocked) > 0 {
		sb.WriteString(fmt.Sprintf("• 🟠 Blocked: *%d*\n", len(b.blocked)))
	}
	sb.WriteString("\n")

	if len(b.dueToday) > 0 {
		sb.WriteString("*🎯 Actions Due Today*\n" + bulletTasks(b.dueToday) + "\n")
	}
	if len(b.dueThisWeek) > 0 {
		sb.WriteString("*📅 Actions Due This Week*\n" + bulletTasks(b.dueThisWeek) + "\n")
	}
	if len(b.p0) > 0 {
		sb.WriteString("*🚨 P0 Tasks*\n" + bulletTasks(b.p0) + "\n")
	}

	sb.WriteString(divider + "\n")
	sb.WriteString("*💡 AI Focus Recommendation*\n" + analysis + "\n")
	return sb.String()
}

func renderClosing(b buckets, activity []jira.ActivityItem, analysis string, today time.Time) string {
	var sb strings.Builder
	sb.WriteString("*📊 Daily Closing — " + today.Format("Monday, January 2, 2006") + "*\n\n")

	sb.WriteString(renderActivityHeader(activity))
	sb.WriteString("*📋 Task Status*\n" + bulletTasks(b.all) + "\n")
	if len(b.blocked) > 0 {
		sb.WriteString("*⏳ Tracking (Blocked)*\n" + bulletTasks(b.blocked) + "\n")
	}

	sb.WriteString(divider + "\n")
	sb.WriteString("*💡 Suggested Task Updates*\n" + analysis + "\n\n")
	sb.WriteString("_Run `logbook sync` to push progress to Jira._\n")
	return sb.String()
}

func renderWeekly(b buckets, analysis string, today time.Time) string {
	var sb strings.Builder
	sb.WriteString("*📅 Weekly Review — Week of " + today.Format("January 2, 2006") + "*\n\n")

	sb.WriteString("*📋 Task Overview*\n")
	sb.WriteString(fmt.Sprintf("• 🚨 P0 (Critical): *%d*\n", len(b.p0)))
	sb.WriteString(fmt.Sprintf("• ⚡ P1 (This Week): *%d*\n", len(b.p1)))
	sb.WriteString(fmt.Sprintf("• 🟠 Blocked: *%d*\n", len(b.blocked)))
	sb.WriteString(fmt.Sprintf("• ✅ Done: *%d*\n", len(b.done)))
	sb.WriteString(fmt.Sprintf("• 📊 Total Active: *%d*\n\n", b.total-len(b.done)))

	if len(b.p0) > 0 {
		sb.WriteString("*🚨 P0 Tasks*\n" + bulletTasks(b.p0) + "\n")
	}

	sb.WriteString(divider + "\n")
	sb.WriteString("*💡 AI Weekly Insights*\n" + analysis + "\n")
	return sb.String()
}
