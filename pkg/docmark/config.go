package docmark

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// Default values for the markup style and the table cell marker
const (
	DefaultMarkupStyle   = "CoupaMarkUp"
	DefaultProcessedText = "PROCESSED"
)

// Config contains all configuration options for the docmark engine
type Config struct {
	// MarkupStyle is the style name (or id) that marks instruction text
	MarkupStyle string
	// ProcessedText replaces the text of markup-styled table cell paragraphs
	ProcessedText string
	// RepeatMode selects how many copies a repeat block produces
	RepeatMode RepeatMode
	// HostPolicy decides where a value goes when a paragraph has no content run
	HostPolicy HostPolicy
	// RemoveRepeatMarkers deletes the repeat_N and end paragraphs after expansion
	RemoveRepeatMarkers bool
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
}

var (
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MarkupStyle:         DefaultMarkupStyle,
		ProcessedText:       DefaultProcessedText,
		RepeatMode:          RepeatSingle,
		HostPolicy:          HostRestyle,
		RemoveRepeatMarkers: false,
		LogLevel:            "info",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCMARK_MARKUP_STYLE
	if val := os.Getenv("DOCMARK_MARKUP_STYLE"); val != "" {
		config.MarkupStyle = val
	}

	// DOCMARK_PROCESSED_TEXT
	if val := os.Getenv("DOCMARK_PROCESSED_TEXT"); val != "" {
		config.ProcessedText = val
	}

	// DOCMARK_REPEAT_MODE
	if val := os.Getenv("DOCMARK_REPEAT_MODE"); val != "" {
		if mode, err := ParseRepeatMode(val); err == nil {
			config.RepeatMode = mode
		}
	}

	// DOCMARK_HOST_POLICY
	if val := os.Getenv("DOCMARK_HOST_POLICY"); val != "" {
		if policy, err := ParseHostPolicy(val); err == nil {
			config.HostPolicy = policy
		}
	}

	// DOCMARK_REMOVE_REPEAT_MARKERS
	if val := os.Getenv("DOCMARK_REMOVE_REPEAT_MARKERS"); val != "" {
		config.RemoveRepeatMarkers = parseBool(val)
	}

	// DOCMARK_LOG_LEVEL
	if val := os.Getenv("DOCMARK_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.MarkupStyle == "" {
		config.MarkupStyle = defaults.MarkupStyle
	}

	if config.ProcessedText == "" {
		config.ProcessedText = defaults.ProcessedText
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MarkupStyle) == "" {
		return errors.New("markup style cannot be empty")
	}

	if c.ProcessedText == "" {
		return errors.New("processed text cannot be empty")
	}

	if c.RepeatMode != RepeatSingle && c.RepeatMode != RepeatCount {
		return errors.New("invalid repeat mode: " + c.RepeatMode.String())
	}

	if c.HostPolicy != HostRestyle && c.HostPolicy != HostInsertRun {
		return errors.New("invalid host policy: " + c.HostPolicy.String())
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
