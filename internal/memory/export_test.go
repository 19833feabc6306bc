package memory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportToFile_Format(t *testing.T) {
	s := newTestStore(t, 10)
	s.AddWithTimestamp(RoleUser, "What is Go?", "2024-05-01T10:00:00.000000")
	s.AddWithTimestamp(RoleModel, "A language.", "2024-05-01T10:00:02.000000")

	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, s.ExportToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "# Gemini Conversation History\n\n" +
		"## USER (2024-05-01T10:00:00.000000)\n\nWhat is Go?\n\n---\n\n" +
		"## MODEL (2024-05-01T10:00:02.000000)\n\nA language.\n\n---\n\n"
	assert.Equal(t, want, string(data))
}

func TestExport_ParseRoundTrip(t *testing.T) {
	s := newTestStore(t, 10)
	s.AddWithTimestamp(RoleUser, "first\n\nwith a blank line", "2024-05-01T10:00:00.000000")
	s.AddWithTimestamp(RoleModel, "# heading inside\n\n- item (one)", "2024-05-01T10:00:01.000000")
	s.AddWithTimestamp(RoleUser, "no timestamp", "")

	parsed, err := ParseTranscript(s.Transcript())
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, s.History(0), parsed)
}

func TestParseTranscript_HorizontalRules(t *testing.T) {
	contents := []string{
		"---",
		"a\n\n---\n\nb",
		"intro\n\n---\n\n## Section\n\ntext",
		"ends with a rule\n\n---",
	}
	s := newTestStore(t, 10)
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleModel
		}
		s.AddWithTimestamp(role, c, "2024-05-01T10:00:00.000000")
	}

	parsed, err := ParseTranscript(s.Transcript())
	require.NoError(t, err)
	assert.Equal(t, s.History(0), parsed)
}

func TestParseTranscript_Empty(t *testing.T) {
	s := newTestStore(t, 10)
	parsed, err := ParseTranscript(s.Transcript())
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParseTranscript_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no header", "## USER\n\nhi\n\n---\n\n"},
		{"truncated", "# Gemini Conversation History\n\n## USER\n\nhi"},
		{"bad heading", "# Gemini Conversation History\n\nUSER\n\nhi\n\n---\n\n"},
		{"unknown role", "# Gemini Conversation History\n\n## SYSTEM\n\nhi\n\n---\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTranscript(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestExportToFile_Unwritable(t *testing.T) {
	s := newTestStore(t, 10)
	s.Add(RoleUser, "x")

	err := s.ExportToFile(filepath.Join(t.TempDir(), "missing", "dir", "out.md"))
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "export", perr.Op)
	assert.True(t, strings.Contains(perr.Error(), "export"))
}
