package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Alex72-py/gemini-cli-termux/internal/fsutil"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// PersistenceError reports a failed load, save or export. It is never fatal.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Save writes the full log to the backing file atomically
func (s *Store) Save() error {
	messages := s.messages
	if messages == nil {
		messages = []Message{}
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	if err := fsutil.WriteFileAtomic(s.path, data, 0600); err != nil {
		logging.Warn("Failed to save history", logging.Fields{"path": s.path, "error": err.Error()})
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	logging.Debug("History saved", logging.Fields{"path": s.path, "messages": len(messages)})
	return nil
}

// Load replaces the log with the backing file's contents, trimmed to the
// bound. An absent file is an empty log. On any other failure the log is
// left empty and a *PersistenceError is returned.
func (s *Store) Load() error {
	s.messages = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logging.Warn("Failed to read history", logging.Fields{"path": s.path, "error": err.Error()})
		return &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		logging.Warn("Corrupt history file", logging.Fields{"path": s.path, "error": err.Error()})
		return &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	s.messages = messages
	s.trim()
	logging.Debug("History loaded", logging.Fields{"path": s.path, "messages": len(s.messages)})
	return nil
}
