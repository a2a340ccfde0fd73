// Package report generates the daily briefing, daily closing and weekly
// review narratives from local task state, using an OpenAI-compatible
// chat-completion endpoint.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/task"
)

// Kind selects which report to generate.
type Kind string

const (
	KindBriefing Kind = "briefing"
	KindClosing  Kind = "closing"
	KindWeekly   Kind = "weekly"
)

// notConfigured is returned as report body text when no LLM key exists.
const notConfigured = "_AI analysis not configured. Set LLM_API_KEY._"

// Generator builds reports. A nil client (no API key) degrades to
// placeholder analysis instead of failing.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewGenerator creates a report generator. apiURL is the base URL of an
// OpenAI-compatible API; an empty apiKey disables AI analysis.
func NewGenerator(apiURL, apiKey, model string, logger *zap.Logger) *Generator {
	g := &Generator{model: model, logger: logger}
	if g.model == "" {
		g.model = "gpt-4o-mini"
	}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if apiURL != "" {
			cfg.BaseURL = strings.TrimSuffix(apiURL, "/") + "/v1"
		}
		g.client = openai.NewClientWithConfig(cfg)
	}
	return g
}

// Generate builds the report of the given kind over the records.
// activity carries recent remote issue activity; nil means it could not
// be fetched and the reports fall back to local state only.
func (g *Generator) Generate(ctx context.Context, kind Kind, records []task.Record, activity []jira.ActivityItem, today time.Time) (string, error) {
	buckets := categorize(records, today)

	analysis := g.analyze(ctx, kind, buckets, activity, today)

	switch kind {
	case KindBriefing:
		return renderBriefing(buckets, activity, analysis, today), nil
	case KindClosing:
		return renderClosing(buckets, activity, analysis, today), nil
	case KindWeekly:
		return renderWeekly(buckets, analysis, today), nil
	default:
		return "", fmt.Errorf("unknown report kind %q", kind)
	}
}

// analyze asks the LLM for the free-text section of the report. Any
// failure degrades to placeholder text; reports never fail on AI
// availability.
func (g *Generator) analyze(ctx context.Context, kind Kind, b buckets, activity []jira.ActivityItem, today time.Time) string {
	if g.client == nil {
		return notConfigured
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a productivity assistant for a task logbook. Use Slack mrkdwn formatting: *bold*, _italic_, bullets with •. Keep answers concise.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(kind, b, activity, today),
			},
		},
		MaxTokens:   600,
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.Warn("AI analysis failed", zap.Error(err))
		return "_AI analysis unavailable_"
	}
	if len(resp.Choices) == 0 {
		return "_AI analysis unavailable_"
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

func buildPrompt(kind Kind, b buckets, activity []jira.ActivityItem, today time.Time) string {
	var sb strings.Builder
	date := today.Format("Monday, January 2, 2006")

	switch kind {
	case KindClosing:
		sb.WriteString("Suggest which tasks should have progress logged today, any status changes, and activity not yet tracked.\n\n")
	case KindWeekly:
		sb.WriteString("Write a brief weekly reflection: key accomplishments, attention needed, next week's focus, and housekeeping.\n\n")
	default:
		sb.WriteString("Give a brief focus recommendation for today, flag tasks needing attention, and call out blockers.\n\n")
	}

	sb.WriteString("TODAY: " + date + "\n\n")
	sb.WriteString(fmt.Sprintf("TASK SUMMARY:\n- P0 (do today): %d\n- P1 (this week): %d\n- Blocked: %d\n- Done: %d\n- Total: %d\n\n",
		len(b.p0), len(b.p1), len(b.blocked), len(b.done), b.total))
	sb.WriteString("ACTIONS DUE TODAY:\n" + bulletTasks(b.dueToday) + "\n")
	sb.WriteString("ACTIONS DUE THIS WEEK:\n" + bulletTasks(b.dueThisWeek) + "\n")
	sb.WriteString("ALL TASKS:\n" + bulletTasks(b.all) + "\n")
	sb.WriteString("RECENT JIRA ACTIVITY:\n" + activityLines(activity))
	return sb.String()
}
