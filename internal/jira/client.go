// Package jira wraps the Jira REST API behind the small surface the
// logbook needs: point-in-time issue snapshots and the three mutation
// primitives (comment, field update, transition).
package jira

import (
	"fmt"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
)

// commentCreatedFormat is the timestamp layout Jira uses on comments.
const commentCreatedFormat = "2006-01-02T15:04:05.000-0700"

// IssueSnapshot is a point-in-time view of one remote issue. Snapshots
// are fetched fresh on every scan and never cached.
type IssueSnapshot struct {
	Key             string
	Summary         string
	Status          string
	DueDate         string
	Description     string
	LastCommentDate time.Time
	LastCommentText string
	Updated         time.Time
	URL             string
}

// HasLastComment reports whether the issue has any comment at all.
func (s *IssueSnapshot) HasLastComment() bool {
	return !s.LastCommentDate.IsZero()
}

// Transition is one state change currently available on an issue.
type Transition struct {
	ID     string
	Name   string
	ToName string
}

// Client wraps Jira API client functionality.
type Client struct {
	client  *jira.Client
	logger  *zap.Logger
	baseURL string
}

// NewClient creates a new Jira client using basic auth with an API token.
func NewClient(baseURL, username, apiToken string, logger *zap.Logger) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: username,
		Password: apiToken,
	}

	client, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client:  client,
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// FetchIssue retrieves a snapshot of one issue. Any failure is returned
// as an error; callers treat it as "absent" and skip the key.
func (c *Client) FetchIssue(key string) (*IssueSnapshot, error) {
	issue, _, err := c.client.Issue.Get(key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", key, err)
	}

	snap := &IssueSnapshot{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		Updated:     time.Time(issue.Fields.Updated),
		URL:         fmt.Sprintf("%s/browse/%s", c.baseURL, issue.Key),
	}
	if issue.Fields.Status != nil {
		snap.Status = issue.Fields.Status.Name
	}
	if due := time.Time(issue.Fields.Duedate); !due.IsZero() {
		snap.DueDate = due.Format("2006-01-02")
	}

	if issue.Fields.Comments != nil && len(issue.Fields.Comments.Comments) > 0 {
		last := issue.Fields.Comments.Comments[len(issue.Fields.Comments.Comments)-1]
		snap.LastCommentText = last.Body
		created, err := time.Parse(commentCreatedFormat, last.Created)
		if err != nil {
			c.logger.Warn("failed to parse comment timestamp",
				zap.String("issue", issue.Key),
				zap.String("created", last.Created),
			)
		} else {
			snap.LastCommentDate = created
		}
	}

	return snap, nil
}

// ActivityItem is one row of recent project activity.
type ActivityItem struct {
	Key      string
	Summary  string
	Status   string
	Resolved bool
}

// RecentActivity lists issues in the project updated on or after the
// given date, most recently updated first.
func (c *Client) RecentActivity(project string, since time.Time) ([]ActivityItem, error) {
	jql := fmt.Sprintf("project = %s AND updated >= '%s' ORDER BY updated DESC",
		project, since.Format("2006-01-02"))

	issues, _, err := c.client.Issue.Search(jql, &jira.SearchOptions{
		MaxResults: 30,
		Fields:     []string{"key", "summary", "status", "resolution", "updated"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	items := make([]ActivityItem, 0, len(issues))
	for _, issue := range issues {
		item := ActivityItem{
			Key:      issue.Key,
			Summary:  issue.Fields.Summary,
			Resolved: issue.Fields.Resolution != nil,
		}
		if issue.Fields.Status != nil {
			item.Status = issue.Fields.Status.Name
		}
		items = append(items, item)
	}
	return items, nil
}

// PostComment adds a comment to an issue.
func (c *Client) PostComment(key, body string) error {
	_, _, err := c.client.Issue.AddComment(key, &jira.Comment{
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// UpdateDueDate sets an issue's due date field. The date is the usual
// YYYY-MM-DD form.
func (c *Client) UpdateDueDate(key, date string) error {
	payload := map[string]interface{}{
		"fields": map[string]interface{}{
			"duedate": date,
		},
	}
	_, err := c.client.Issue.UpdateIssue(key, payload)
	if err != nil {
		return fmt.Errorf("failed to update due date: %w", err)
	}
	return nil
}

// Transitions lists the state changes currently available on an issue.
func (c *Client) Transitions(key string) ([]Transition, error) {
	transitions, _, err := c.client.Issue.GetTransitions(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get transitions: %w", err)
	}

	out := make([]Transition, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, Transition{
			ID:     t.ID,
			Name:   t.Name,
			ToName: t.To.Name,
		})
	}
	return out, nil
}

// DoTransition executes a transition by ID.
func (c *Client) DoTransition(key, transitionID string) error {
	_, err := c.client.Issue.DoTransition(key, transitionID)
	if err != nil {
		return fmt.Errorf("failed to transition issue: %w", err)
	}
	return nil
}
