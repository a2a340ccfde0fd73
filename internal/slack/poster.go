// Package slack posts logbook reports to a Slack channel and enriches
// existing report threads.
package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Poster delivers mrkdwn messages to one configured channel. A nil
// client (missing token) prints messages to stdout instead, so
// reports remain usable without Slack credentials.
type Poster struct {
	client    *slack.Client
	channelID string
	logger    *zap.Logger
}

// NewPoster creates a poster. An empty token or channel disables
// delivery and switches to stdout. Options are passed through to the
// underlying client; tests use them to point at a local server.
func NewPoster(token, channelID string, logger *zap.Logger, opts ...slack.Option) *Poster {
	p := &Poster{channelID: channelID, logger: logger}
	if token != "" && channelID != "" {
		p.client = slack.New(token, opts...)
	}
	return p
}

// Post sends one message as a mrkdwn section block. When Slack is not
// configured the message is printed locally and Post returns nil.
func (p *Poster) Post(title, message string) error {
	if p.client == nil {
		p.logger.Info("slack not configured, printing report locally")
		fmt.Println(strings.Repeat("-", 50))
		fmt.Println(message)
		fmt.Println(strings.Repeat("-", 50))
		return nil
	}

	block := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, message, false, false),
		nil, nil,
	)
	_, _, err := p.client.PostMessage(p.channelID,
		slack.MsgOptionText(title, false),
		slack.MsgOptionBlocks(block),
	)
	if err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}

	p.logger.Info("posted to slack", zap.String("title", title))
	return nil
}

// FindThread returns the timestamp of the most recent channel message
// containing any of the keywords, preferring one that also mentions
// today's date. Returns empty when no match exists.
func (p *Poster) FindThread(keywords []string, today time.Time) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("slack not configured")
	}

	history, err := p.client.GetConversationHistory(&slack.GetConversationHistoryParameters{
		ChannelID: p.channelID,
		Limit:     20,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel history: %w", err)
	}

	date := today.Format("January 2, 2006")
	var fallback string
	for _, msg := range history.Messages {
		if !containsAny(msg.Text, keywords) {
			continue
		}
		if strings.Contains(msg.Text, date) {
			return msg.Timestamp, nil
		}
		if fallback == "" {
			fallback = msg.Timestamp
		}
	}
	return fallback, nil
}

// Reply posts a message into an existing thread.
func (p *Poster) Reply(threadTS, message string) error {
	if p.client == nil {
		return fmt.Errorf("slack not configured")
	}

	_, _, err := p.client.PostMessage(p.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionTS(threadTS),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("failed to post thread reply: %w", err)
	}
	return nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
