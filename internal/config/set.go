package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValidationError reports a malformed key or value
type ValidationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", e.Key, e.Value, e.Reason)
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("must not be empty")
			}
			*ptr(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func boolField(ptr func(*Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "on", "1":
				*ptr(c) = true
			case "false", "no", "off", "0":
				*ptr(c) = false
			default:
				return fmt.Errorf("expected true or false")
			}
			return nil
		},
	}
}

func intField(ptr func(*Config) *int, min, max int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected an integer")
			}
			if n < min || n > max {
				return fmt.Errorf("must be between %d and %d", min, max)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func floatField(ptr func(*Config) *float64, min, max float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("expected a number")
			}
			if f < min || f > max {
				return fmt.Errorf("must be between %g and %g", min, max)
			}
			*ptr(c) = f
			return nil
		},
	}
}

var fields = map[string]field{
	"api.model":   stringField(func(c *Config) *string { return &c.API.Model }),
	"api.timeout": intField(func(c *Config) *int { return &c.API.Timeout }, 1, 3600),

	"generation.temperature":       floatField(func(c *Config) *float64 { return &c.Generation.Temperature }, 0, 2),
	"generation.top_p":             floatField(func(c *Config) *float64 { return &c.Generation.TopP }, 0, 1),
	"generation.top_k":             intField(func(c *Config) *int { return &c.Generation.TopK }, 1, 1000),
	"generation.max_output_tokens": intField(func(c *Config) *int { return &c.Generation.MaxOutputTokens }, 1, 1<<20),

	"ui.theme":               stringField(func(c *Config) *string { return &c.UI.Theme }),
	"ui.syntax_highlighting": boolField(func(c *Config) *bool { return &c.UI.SyntaxHighlighting }),
	"ui.show_timestamps":     boolField(func(c *Config) *bool { return &c.UI.ShowTimestamps }),
	"ui.streaming":           boolField(func(c *Config) *bool { return &c.UI.Streaming }),

	"history.enabled":     boolField(func(c *Config) *bool { return &c.History.Enabled }),
	"history.max_entries": intField(func(c *Config) *int { return &c.History.MaxEntries }, 1, 1000000),
	"history.auto_save":   boolField(func(c *Config) *bool { return &c.History.AutoSave }),

	"clipboard.use_termux_api": boolField(func(c *Config) *bool { return &c.Clipboard.UseTermuxAPI }),
	"clipboard.auto_copy_code": boolField(func(c *Config) *bool { return &c.Clipboard.AutoCopyCode }),
}

// Keys returns every settable key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !strings.Contains(key, ".") {
		return field{}, &ValidationError{Key: key, Reason: "key must have the form section.key"}
	}
	f, ok := fields[key]
	if !ok {
		return field{}, &ValidationError{Key: key, Reason: "unknown configuration key"}
	}
	return f, nil
}

// Set parses value into the setting named by key ("section.key").
// The configuration is unchanged when an error is returned.
func (c *Config) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}
	if err := f.set(c, value); err != nil {
		return &ValidationError{Key: strings.ToLower(strings.TrimSpace(key)), Value: value, Reason: err.Error()}
	}
	return nil
}

// Get returns the setting named by key formatted as a string
func (c *Config) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(c), nil
}

// Entries returns every key and its current value in sorted key order
func (c *Config) Entries() [][2]string {
	keys := Keys()
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, fields[k].get(c)})
	}
	return out
}
