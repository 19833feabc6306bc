package memory

import (
	"time"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// TimestampLayout is the local-time, microsecond layout stored with messages
const TimestampLayout = "2006-01-02T15:04:05.000000"

// DefaultContextLimit is how many recent messages seed a new remote session
const DefaultContextLimit = 10

// Message is one entry of the conversation log
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Turn is a message stripped of its timestamp, as sent to the API
type Turn struct {
	Role    Role
	Content string
}

// Store is a bounded, file-backed conversation log
type Store struct {
	path       string
	maxEntries int
	messages   []Message
	now        func() time.Time
}

// New creates an empty store without touching the file at path.
// A non-positive maxEntries falls back to the default.
func New(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultMaxEntries
	}
	return &Store{
		path:       path,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Open creates a store and loads any prior log from path.
// The returned store is always usable; a non-nil error is a
// *PersistenceError describing why the prior log could not be read.
func Open(path string, maxEntries int) (*Store, error) {
	s := New(path, maxEntries)
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// MaxEntries returns the log bound
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// Len returns the number of messages held
func (s *Store) Len() int {
	return len(s.messages)
}

// Add appends a message stamped with the current time
func (s *Store) Add(role Role, content string) {
	s.AddWithTimestamp(role, content, s.now().Format(TimestampLayout))
}

// AddWithTimestamp appends a message with an explicit timestamp and evicts
// the oldest entries beyond the bound.
func (s *Store) AddWithTimestamp(role Role, content, timestamp string) {
	s.messages = append(s.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: timestamp,
	})
	s.trim()
}

func (s *Store) trim() {
	if surplus := len(s.messages) - s.maxEntries; surplus > 0 {
		// Copy so the evicted prefix can be collected
		kept := make([]Message, s.maxEntries)
		copy(kept, s.messages[surplus:])
		s.messages = kept
	}
}

// History returns the most recent limit messages in chronological order.
// A non-positive limit returns the whole log. The result is a copy.
func (s *Store) History(limit int) []Message {
	start := 0
	if limit > 0 && limit < len(s.messages) {
		start = len(s.messages) - limit
	}
	out := make([]Message, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out
}

// ContextForAPI returns the last min(limit, Len()) messages as turns
func (s *Store) ContextForAPI(limit int) []Turn {
	if limit < 0 {
		limit = 0
	}
	start := 0
	if limit < len(s.messages) {
		start = len(s.messages) - limit
	}
	turns := make([]Turn, 0, len(s.messages)-start)
	for _, m := range s.messages[start:] {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// Clear empties the log. The file is rewritten on the next Save.
func (s *Store) Clear() {
	s.messages = nil
}
