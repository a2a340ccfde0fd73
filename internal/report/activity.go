package report

import (
	"fmt"
	"strings"

	"github.com/lucas-viotti/personal-os/internal/jira"
)

// maxActivityLines caps how many activity rows feed the prompt and the
// rendered reports.
const maxActivityLines = 10

// activityLines renders recent Jira activity as mrkdwn bullets. A nil
// slice means activity could not be fetched.
func activityLines(items []jira.ActivityItem) string {
	if items == nil {
		return "_Jira activity unavailable_\n"
	}
	if len(items) == 0 {
		return "• (none)\n"
	}

	var sb strings.Builder
	for i, item := range items {
		if i == maxActivityLines {
			break
		}
		sb.WriteString(fmt.Sprintf("• %s: %s [%s]\n", item.Key, item.Summary, item.Status))
	}
	return sb.String()
}

func resolvedCount(items []jira.ActivityItem) int {
	n := 0
	for _, item := range items {
		if item.Resolved {
			n++
		}
	}
	return n
}

// renderActivityHeader is the count summary shown at the top of the
// briefing and closing reports. Empty when activity was not fetched.
func renderActivityHeader(items []jira.ActivityItem) string {
	if items == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("*📊 Recent Activity*\n")
	sb.WriteString(fmt.Sprintf("• 📋 Jira tickets updated: *%d*\n", len(items)))
	if n := resolvedCount(items); n > 0 {
		sb.WriteString(fmt.Sprintf("• ✅ Resolved: *%d*\n", n))
	}
	sb.WriteString("\n")
	return sb.String()
}
