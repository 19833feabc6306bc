// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for Gemini API requests (streaming can take a while)
	DefaultAPITimeout = 60 * time.Second
	// DefaultUploadTimeout bounds a single attachment upload
	DefaultUploadTimeout = 120 * time.Second
)

// Application defaults
const (
	AppName      = "gemini-termux"
	AppDirName   = "gemini-cli"
	Version      = "1.0.0"
	DefaultModel = "gemini-2.0-flash-exp"
	DefaultTheme = "monokai"

	DefaultTemperature     = 0.9
	DefaultTopP            = 0.95
	DefaultTopK            = 40
	DefaultMaxOutputTokens = 8192
	DefaultMaxEntries      = 1000

	// HistoryCommandLimit is how many messages /history shows
	HistoryCommandLimit = 20
	// HistoryPreviewWidth is the display width of a /history content preview
	HistoryPreviewWidth = 100
)

// Models are the Gemini models the client can switch between.
// The order is the 1-based numbering used by /model and setup.
var Models = []string{
	"gemini-2.0-flash-exp",
	"gemini-2.0-flash-thinking-exp",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

// Environment variable names
const (
	EnvAPIKey = "GEMINI_API_KEY"
	// EnvTermuxPrefix is set by Termux to its usr prefix
	EnvTermuxPrefix = "PREFIX"
)
