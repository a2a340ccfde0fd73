package slack

import "time"

// enrichPrompts maps report kinds to the follow-up question posted in
// the report thread.
var enrichPrompts = map[string]string{
	"briefing": "What Slack threads should I follow up on today?",
	"closing":  "What Slack conversations did I have today that need logging?",
	"weekly":   "Summarize my key Slack interactions this week",
}

// EnrichmentMessage builds the thread reply asking for the Slack
// context a posted report cannot see.
func EnrichmentMessage(mode string) string {
	prompt, ok := enrichPrompts[mode]
	if !ok {
		prompt = "Analyze my recent Slack activity"
	}
	return "*💬 Slack Context*\n\n_Reply in this thread with the conversations worth logging:_\n> " + prompt
}

// Enrich finds the most recent report thread matching the keywords and
// replies with the enrichment prompt for the given mode. Returns the
// thread timestamp, or empty when no report message was found.
func (p *Poster) Enrich(mode string, keywords []string, today time.Time) (string, error) {
	threadTS, err := p.FindThread(keywords, today)
	if err != nil {
		return "", err
	}
	if threadTS == "" {
		return "", nil
	}

	if err := p.Reply(threadTS, EnrichmentMessage(mode)); err != nil {
		return "", err
	}
	return threadTS, nil
}
