package memory

import (
	"fmt"
	"os"
	"strings"
)

const (
	transcriptHeader    = "# Gemini Conversation History\n\n"
	transcriptSeparator = "\n\n---\n\n"
)

// Transcript renders the log as markdown: one "## ROLE (timestamp)" block
// per message, separated by horizontal rules.
func (s *Store) Transcript() string {
	var b strings.Builder
	b.WriteString(transcriptHeader)
	for _, m := range s.messages {
		b.WriteString("## ")
		b.WriteString(strings.ToUpper(string(m.Role)))
		if m.Timestamp != "" {
			fmt.Fprintf(&b, " (%s)", m.Timestamp)
		}
		b.WriteString("\n\n")
		b.WriteString(m.Content)
		b.WriteString(transcriptSeparator)
	}
	return b.String()
}

// ExportToFile writes the markdown transcript to path
func (s *Store) ExportToFile(path string) error {
	if err := os.WriteFile(path, []byte(s.Transcript()), 0644); err != nil {
		return &PersistenceError{Op: "export", Path: path, Err: err}
	}
	return nil
}

// ParseTranscript reads back a transcript produced by Transcript. A
// separator ends a message only when a "## USER" or "## MODEL" heading or
// the end of input follows it, so content may contain horizontal rules.
func ParseTranscript(text string) ([]Message, error) {
	if !strings.HasPrefix(text, transcriptHeader) {
		return nil, fmt.Errorf("missing transcript header")
	}
	rest := strings.TrimPrefix(text, transcriptHeader)

	var messages []Message
	for i := 1; rest != ""; i++ {
		end := blockEnd(rest)
		if end < 0 {
			return nil, fmt.Errorf("transcript is truncated")
		}
		block := rest[:end]
		rest = rest[end+len(transcriptSeparator):]

		heading, content, ok := strings.Cut(block, "\n\n")
		if !ok {
			return nil, fmt.Errorf("block %d: malformed heading", i)
		}
		role, ts, ok := parseHeading(heading)
		if !ok {
			return nil, fmt.Errorf("block %d: malformed heading", i)
		}
		messages = append(messages, Message{Role: role, Content: content, Timestamp: ts})
	}
	return messages, nil
}

// blockEnd returns the offset of the separator closing the first block,
// or -1 if there is none.
func blockEnd(s string) int {
	for off := 0; ; {
		i := strings.Index(s[off:], transcriptSeparator)
		if i < 0 {
			return -1
		}
		at := off + i
		next := s[at+len(transcriptSeparator):]
		if next == "" || startsWithHeading(next) {
			return at
		}
		off = at + 1
	}
}

func startsWithHeading(s string) bool {
	line, after, ok := strings.Cut(s, "\n")
	if !ok || !strings.HasPrefix(after, "\n") {
		return false
	}
	_, _, ok = parseHeading(line)
	return ok
}

// parseHeading splits "## ROLE (timestamp)" into its parts
func parseHeading(line string) (Role, string, bool) {
	name, ok := strings.CutPrefix(line, "## ")
	if !ok {
		return "", "", false
	}
	var ts string
	if open := strings.Index(name, " ("); open >= 0 && strings.HasSuffix(name, ")") {
		ts = name[open+2 : len(name)-1]
		name = name[:open]
	}
	switch role := Role(strings.ToLower(name)); role {
	case RoleUser, RoleModel:
		return role, ts, true
	}
	return "", "", false
}
