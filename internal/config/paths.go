package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
)

// File names inside the application directories
const (
	ConfigFileName       = "config.yaml"
	LegacyConfigFileName = "config.toml"
	APIKeyFileName       = "api_key"
	HistoryFileName      = "history.json"
	PromptHistoryName    = "prompt_history"
)

// Paths holds the application directories
type Paths struct {
	ConfigDir string
	CacheDir  string
	DataDir   string
}

// DefaultPaths returns the XDG-style directories under the home directory
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("could not determine home directory: %w", err)
	}
	return PathsUnder(home), nil
}

// PathsUnder returns the application directories rooted at home
func PathsUnder(home string) Paths {
	return Paths{
		ConfigDir: filepath.Join(home, ".config", constants.AppDirName),
		CacheDir:  filepath.Join(home, ".cache", constants.AppDirName),
		DataDir:   filepath.Join(home, ".local", "share", constants.AppDirName),
	}
}

// Ensure creates every directory
func (p Paths) Ensure() error {
	for _, dir := range []string{p.ConfigDir, p.CacheDir, p.DataDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigFile is the YAML settings file
func (p Paths) ConfigFile() string { return filepath.Join(p.ConfigDir, ConfigFileName) }

// LegacyConfigFile is the TOML settings file read when no YAML file exists
func (p Paths) LegacyConfigFile() string { return filepath.Join(p.ConfigDir, LegacyConfigFileName) }

// APIKeyFile stores the API key with 0600 permissions
func (p Paths) APIKeyFile() string { return filepath.Join(p.ConfigDir, APIKeyFileName) }

// HistoryFile stores the conversation log
func (p Paths) HistoryFile() string { return filepath.Join(p.DataDir, HistoryFileName) }

// PromptHistoryFile stores previously typed input lines
func (p Paths) PromptHistoryFile() string { return filepath.Join(p.DataDir, PromptHistoryName) }
