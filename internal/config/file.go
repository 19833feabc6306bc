package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Alex72-py/gemini-cli-termux/internal/fsutil"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// LoadFile reads the settings file under paths over the defaults, without
// the environment overlay. A missing file yields the defaults. On a read
// or parse error the defaults are returned together with the error.
func LoadFile(paths Paths) (*Config, error) {
	cfg := Default()
	cfg.path = paths.ConfigFile()

	if _, err := os.Stat(paths.ConfigFile()); err == nil {
		if err := loadYAML(paths.ConfigFile(), cfg); err != nil {
			fresh := Default()
			fresh.path = cfg.path
			return fresh, err
		}
		return cfg, nil
	}

	if _, err := os.Stat(paths.LegacyConfigFile()); err == nil {
		if _, err := toml.DecodeFile(paths.LegacyConfigFile(), cfg); err != nil {
			fresh := Default()
			fresh.path = cfg.path
			return fresh, fmt.Errorf("failed to parse config file %s: %w", paths.LegacyConfigFile(), err)
		}
		logging.Debug("Loaded legacy TOML config", logging.Fields{"path": paths.LegacyConfigFile()})
	}

	return cfg, nil
}

// Load reads the settings file and applies the environment overlay
func Load(paths Paths) (*Config, error) {
	cfg, fileErr := LoadFile(paths)
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, errors.Join(fileErr, err)
	}
	return cfg, fileErr
}

// loadYAML decodes path over cfg, so keys absent from the file keep
// their current values.
func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays GEMINI_* environment variables
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("invalid environment configuration: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML with 0600 permissions
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := []byte("# Gemini CLI configuration\n# Edit with: gemini-termux config set <section.key> <value>\n\n")
	if err := fsutil.WriteFileAtomic(c.path, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.path, err)
	}
	return nil
}
