// Package config loads logbook configuration from the environment,
// with an optional .env file providing defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all external credentials and paths the logbook uses.
// Every field is optional; components that find their corner of the
// config empty report "not configured" instead of failing.
type Config struct {
	// Atlassian / Jira
	AtlassianDomain string
	AtlassianEmail  string
	AtlassianToken  string
	JiraProject     string

	// Local task store
	TasksDir string

	// LLM (report generation)
	LLMAPIURL string
	LLMAPIKey string
	LLMModel  string

	// Slack
	SlackBotToken  string
	SlackChannelID string

	// Dashboard
	WebPort string
}

// Load reads configuration from environment variables. If envFile names
// an existing .env file it is loaded first; real environment variables
// win over .env entries.
func Load(envFile string) Config {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			// godotenv.Load never overrides variables already set.
			_ = godotenv.Load(envFile)
		}
	}

	cfg := Config{
		AtlassianDomain: os.Getenv("ATLASSIAN_DOMAIN"),
		AtlassianEmail:  os.Getenv("ATLASSIAN_EMAIL"),
		AtlassianToken:  os.Getenv("ATLASSIAN_API_TOKEN"),
		JiraProject:     os.Getenv("JIRA_PROJECT"),
		TasksDir:        os.Getenv("TASKS_DIR"),
		LLMAPIURL:       getEnv("LLM_API_URL", "https://api.openai.com"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		SlackBotToken:   os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID:  os.Getenv("SLACK_CHANNEL_ID"),
		WebPort:         getEnv("WEB_PORT", "8080"),
	}

	if cfg.TasksDir == "" {
		cfg.TasksDir = "Tasks"
	}

	return cfg
}

// JiraConfigured reports whether enough Atlassian credentials exist to
// talk to Jira at all.
func (c Config) JiraConfigured() bool {
	return c.AtlassianDomain != "" && c.AtlassianEmail != "" && c.AtlassianToken != ""
}

// SlackConfigured reports whether Slack posting is possible.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// JiraBaseURL returns the REST base URL for the configured Atlassian site.
func (c Config) JiraBaseURL() string {
	return "https://" + c.AtlassianDomain
}

// StateDir returns the directory holding persisted sync state, next to
// the tasks directory.
func (c Config) StateDir() string {
	return filepath.Join(filepath.Dir(filepath.Clean(c.TasksDir)), ".logbook")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
