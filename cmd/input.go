package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// ErrInterrupted is returned by ReadLine when Ctrl+C is pressed at the prompt
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of user input. It returns io.EOF at end of
// input and ErrInterrupted when the user aborts the current line.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// linerReader is the terminal LineReader with history and Tab completion
type linerReader struct {
	line        *liner.State
	historyFile string
}

// newLinerReader loads prompt history from historyFile and completes the
// given words when the line starts with "/".
func newLinerReader(historyFile string, words []string) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetCompleter(func(input string) []string {
		return completeCommand(input, words)
	})

	r := &linerReader{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			logging.Debug("Prompt history unreadable", logging.Fields{"error": err.Error()})
		}
		f.Close()
	}
	return r
}

// completeCommand returns the words that extend a slash-command prefix
func completeCommand(input string, words []string) []string {
	if !strings.HasPrefix(input, "/") || strings.ContainsAny(input, " \t") {
		return nil
	}
	lower := strings.ToLower(input)
	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, lower) {
			out = append(out, w)
		}
	}
	return out
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	text, err := r.line.Prompt(prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		r.line.AppendHistory(text)
	}
	return text, nil
}

// Close writes prompt history and restores the terminal
func (r *linerReader) Close() error {
	defer r.line.Close()

	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.line.WriteHistory(f)
	return err
}
