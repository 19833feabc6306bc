// Package auth stores and looks up the Gemini API key.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/fsutil"
)

// MinKeyLength is the shortest key Validate accepts
const MinKeyLength = 20

// ErrNoAPIKey is returned when neither the environment nor the key file
// provides a key
var ErrNoAPIKey = errors.New("API key not configured, run 'gemini-termux setup' first")

// Source says where a key was found
type Source string

const (
	SourceEnv  Source = "environment"
	SourceFile Source = "file"
)

// Store reads and writes the key file. The GEMINI_API_KEY environment
// variable takes precedence over the file on every lookup.
type Store struct {
	path   string
	getenv func(string) string
}

// NewStore returns a Store backed by the key file at path
func NewStore(path string) *Store {
	return &Store{path: path, getenv: os.Getenv}
}

// Path returns the key file location
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the key and where it came from
func (s *Store) Lookup() (string, Source, error) {
	if key := strings.TrimSpace(s.getenv(constants.EnvAPIKey)); key != "" {
		return key, SourceEnv, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", ErrNoAPIKey
		}
		return "", "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", "", ErrNoAPIKey
	}
	return key, SourceFile, nil
}

// Load returns the key from the environment or the key file
func (s *Store) Load() (string, error) {
	key, _, err := s.Lookup()
	return key, err
}

// Save writes key to the key file with owner-only permissions
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if err := Validate(key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, []byte(key), 0600); err != nil {
		return fmt.Errorf("failed to write API key: %w", err)
	}
	return nil
}

// Delete removes the key file. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a key is available
func (s *Store) IsAuthenticated() bool {
	key, err := s.Load()
	return err == nil && key != ""
}

// Validate performs a basic format check on key
func Validate(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	if len(key) < MinKeyLength {
		return fmt.Errorf("API key looks too short (got %d characters, need at least %d)", len(key), MinKeyLength)
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return errors.New("API key must not contain whitespace")
	}
	return nil
}

// Mask returns key with all but the last four characters hidden
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
