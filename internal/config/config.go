// Package config loads and edits the client's settings.
//
// Settings come from, in increasing priority: built-in defaults, the YAML
// file ~/.config/gemini-cli/config.yaml (or a legacy config.toml when no
// YAML file exists), and GEMINI_* environment variables.
package config

import (
	"time"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
)

// APIConfig holds request settings
type APIConfig struct {
	Model string `yaml:"model" toml:"model" env:"GEMINI_MODEL"`
	// Timeout is in seconds
	Timeout int `yaml:"timeout" toml:"timeout" env:"GEMINI_TIMEOUT"`
}

// GenerationConfig holds sampling parameters
type GenerationConfig struct {
	Temperature     float64 `yaml:"temperature" toml:"temperature" env:"GEMINI_TEMPERATURE"`
	TopP            float64 `yaml:"top_p" toml:"top_p"`
	TopK            int     `yaml:"top_k" toml:"top_k"`
	MaxOutputTokens int     `yaml:"max_output_tokens" toml:"max_output_tokens"`
}

// UIConfig holds rendering preferences
type UIConfig struct {
	Theme              string `yaml:"theme" toml:"theme"`
	SyntaxHighlighting bool   `yaml:"syntax_highlighting" toml:"syntax_highlighting"`
	ShowTimestamps     bool   `yaml:"show_timestamps" toml:"show_timestamps" env:"GEMINI_SHOW_TIMESTAMPS"`
	Streaming          bool   `yaml:"streaming" toml:"streaming" env:"GEMINI_STREAMING"`
}

// HistoryConfig holds conversation persistence settings
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled" toml:"enabled"`
	MaxEntries int  `yaml:"max_entries" toml:"max_entries" env:"GEMINI_MAX_ENTRIES"`
	AutoSave   bool `yaml:"auto_save" toml:"auto_save"`
}

// ClipboardConfig holds clipboard integration settings
type ClipboardConfig struct {
	UseTermuxAPI bool `yaml:"use_termux_api" toml:"use_termux_api" env:"GEMINI_USE_TERMUX_API"`
	AutoCopyCode bool `yaml:"auto_copy_code" toml:"auto_copy_code"`
}

// Config holds the application configuration
type Config struct {
	API        APIConfig        `yaml:"api" toml:"api"`
	Generation GenerationConfig `yaml:"generation" toml:"generation"`
	UI         UIConfig         `yaml:"ui" toml:"ui"`
	History    HistoryConfig    `yaml:"history" toml:"history"`
	Clipboard  ClipboardConfig  `yaml:"clipboard" toml:"clipboard"`

	// path is where Save writes
	path string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			Model:   constants.DefaultModel,
			Timeout: int(constants.DefaultAPITimeout / time.Second),
		},
		Generation: GenerationConfig{
			Temperature:     constants.DefaultTemperature,
			TopP:            constants.DefaultTopP,
			TopK:            constants.DefaultTopK,
			MaxOutputTokens: constants.DefaultMaxOutputTokens,
		},
		UI: UIConfig{
			Theme:              constants.DefaultTheme,
			SyntaxHighlighting: true,
			ShowTimestamps:     true,
			Streaming:          true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: constants.DefaultMaxEntries,
			AutoSave:   true,
		},
		Clipboard: ClipboardConfig{
			UseTermuxAPI: true,
			AutoCopyCode: false,
		},
	}
}

// Path returns the file Save writes to
func (c *Config) Path() string {
	return c.path
}

// SetPath changes the file Save writes to
func (c *Config) SetPath(path string) {
	c.path = path
}

// Timeout returns the API timeout as a duration
func (c *Config) Timeout() time.Duration {
	if c.API.Timeout <= 0 {
		return constants.DefaultAPITimeout
	}
	return time.Duration(c.API.Timeout) * time.Second
}

// Reset restores the defaults, keeping the save path
func (c *Config) Reset() {
	path := c.path
	*c = *Default()
	c.path = path
}

// Clone returns an independent copy
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
