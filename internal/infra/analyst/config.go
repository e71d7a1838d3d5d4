package analyst

import (
	"time"

	"stockwatch/pkg/config"
)

// Config holds tuning for an analyst client.
type Config struct {
	// Model is the provider model identifier.
	Model string

	// MaxTokens caps the response size.
	MaxTokens int

	// Timeout bounds a single API call.
	Timeout time.Duration

	// MaxInputChars truncates article text sent to the API.
	MaxInputChars int
}

// LoadClaudeConfig reads Claude settings from the environment.
//
// Variables: ANALYST_CLAUDE_MODEL, ANALYST_MAX_TOKENS, ANALYST_TIMEOUT,
// ANALYST_MAX_INPUT_CHARS.
func LoadClaudeConfig() Config {
	return Config{
		Model:         config.GetEnvString("ANALYST_CLAUDE_MODEL", "claude-3-5-haiku-20241022"),
		MaxTokens:     config.GetEnvInt("ANALYST_MAX_TOKENS", 1024),
		Timeout:       config.GetEnvDuration("ANALYST_TIMEOUT", 60*time.Second),
		MaxInputChars: config.GetEnvInt("ANALYST_MAX_INPUT_CHARS", 10000),
	}
}

// LoadOpenAIConfig reads OpenAI settings from the environment.
func LoadOpenAIConfig() Config {
	return Config{
		Model:         config.GetEnvString("ANALYST_OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:     config.GetEnvInt("ANALYST_MAX_TOKENS", 1024),
		Timeout:       config.GetEnvDuration("ANALYST_TIMEOUT", 60*time.Second),
		MaxInputChars: config.GetEnvInt("ANALYST_MAX_INPUT_CHARS", 10000),
	}
}
