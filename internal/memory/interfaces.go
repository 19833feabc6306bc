package memory

// Manager defines the conversation log operations used by the session loop.
// This interface enables dependency injection and easier testing.
type Manager interface {
	// Add appends a message stamped with the current time
	Add(role Role, content string)

	// History returns the most recent messages, all when limit <= 0
	History(limit int) []Message

	// ContextForAPI returns the most recent turns for seeding a session
	ContextForAPI(limit int) []Turn

	// Clear empties the in-memory log
	Clear()

	// Save writes the log to disk
	Save() error

	// Load reads the log from disk
	Load() error

	// ExportToFile writes a markdown transcript
	ExportToFile(path string) error
}

// Ensure concrete type implements the interface
var _ Manager = (*Store)(nil)
