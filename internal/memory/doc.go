// Package memory provides the bounded conversation log used by interactive
// sessions.
//
// A Store keeps messages in insertion order and never holds more than its
// configured maximum; adding past the bound evicts the oldest entries. The
// log is persisted as an indented JSON array of {role, content, timestamp}
// objects and can be exported as a markdown transcript.
//
// Persistence failures never make a Store unusable. Open, Load and Save
// report them as *PersistenceError values that callers show as warnings.
//
// A Store is not safe for concurrent use. It is owned by a single session
// loop.
package memory
