// Package clipboard copies replies to the clipboard, preferring the Termux
// API, then the system clipboard, and finally a plain file in the home
// directory so text is never silently dropped.
package clipboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// FallbackFileName is written in the home directory when no clipboard works
const FallbackFileName = ".gemini_clipboard.txt"

// Outcome says where copied text ended up
type Outcome int

const (
	// Copied means a real clipboard holds the text
	Copied Outcome = iota
	// SavedToFile means the text was written to the fallback file instead
	SavedToFile
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case SavedToFile:
		return "saved to file"
	default:
		return "unknown"
	}
}

// Result describes a successful or degraded copy
type Result struct {
	Outcome Outcome
	// Backend names the clipboard used when Outcome is Copied
	Backend string
	// FallbackPath is set when Outcome is SavedToFile
	FallbackPath string
}

// Backend is one clipboard implementation
type Backend interface {
	Name() string
	Write(text string) error
	Read() (string, error)
}

// Options configures a Clipboard
type Options struct {
	// UseTermuxAPI enables termux-clipboard-set/get when they are on PATH
	UseTermuxAPI bool
	// FallbackPath defaults to ~/.gemini_clipboard.txt
	FallbackPath string
	// Backends overrides backend detection
	Backends []Backend
}

// Clipboard tries each backend in order and falls back to a file
type Clipboard struct {
	backends     []Backend
	hasTermux    bool
	fallbackPath string
}

// New detects the available backends
func New(opts Options) *Clipboard {
	c := &Clipboard{fallbackPath: opts.FallbackPath}
	if c.fallbackPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		c.fallbackPath = filepath.Join(home, FallbackFileName)
	}

	if opts.Backends != nil {
		c.backends = opts.Backends
		return c
	}

	if opts.UseTermuxAPI && termuxAvailable() {
		c.hasTermux = true
		c.backends = append(c.backends, termuxBackend{})
	}
	if systemAvailable() {
		c.backends = append(c.backends, systemBackend{})
	}
	return c
}

// HasTermuxAPI reports whether the Termux clipboard commands are in use
func (c *Clipboard) HasTermuxAPI() bool {
	return c.hasTermux
}

// FallbackPath returns the file used when no clipboard works
func (c *Clipboard) FallbackPath() string {
	return c.fallbackPath
}

// Copy places text on the first working clipboard, or in the fallback file.
// An error means the text could not be stored anywhere.
func (c *Clipboard) Copy(text string) (Result, error) {
	for _, b := range c.backends {
		if err := b.Write(text); err != nil {
			logging.Debug("Clipboard backend failed", logging.Fields{"backend": b.Name(), "error": err.Error()})
			continue
		}
		return Result{Outcome: Copied, Backend: b.Name()}, nil
	}

	if err := os.WriteFile(c.fallbackPath, []byte(text), 0600); err != nil {
		return Result{}, fmt.Errorf("no clipboard available and fallback file failed: %w", err)
	}
	return Result{Outcome: SavedToFile, FallbackPath: c.fallbackPath}, nil
}

// Paste returns clipboard text, reading the fallback file when no clipboard
// works. The bool is false when nothing is available.
func (c *Clipboard) Paste() (string, bool) {
	for _, b := range c.backends {
		text, err := b.Read()
		if err == nil {
			return text, true
		}
		logging.Debug("Clipboard read failed", logging.Fields{"backend": b.Name(), "error": err.Error()})
	}

	data, err := os.ReadFile(c.fallbackPath)
	if err != nil {
		return "", false
	}
	return string(data), true
}
