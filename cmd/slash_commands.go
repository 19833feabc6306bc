package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Alex72-py/gemini-cli-termux/internal/clipboard"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

// Command is a parsed slash command. The set of variants is closed.
type Command interface {
	command()
}

type (
	ExitCommand    struct{}
	ClearCommand   struct{}
	HistoryCommand struct{}
	CopyCommand    struct{}
	SaveCommand    struct{}
	ModelCommand   struct{ Arg string }
	HelpCommand    struct{}
	UnknownCommand struct{ Name string }
)

func (ExitCommand) command()    {}
func (ClearCommand) command()   {}
func (HistoryCommand) command() {}
func (CopyCommand) command()    {}
func (SaveCommand) command()    {}
func (ModelCommand) command()   {}
func (HelpCommand) command()    {}
func (UnknownCommand) command() {}

// commandHelp is the /help table and the Tab completion list
var commandHelp = []struct {
	names []string
	usage string
	desc  string
}{
	{[]string{"/exit", "/quit", "/q"}, "/exit, /quit, /q", "Exit chat"},
	{[]string{"/clear", "/c"}, "/clear, /c", "Clear conversation history"},
	{[]string{"/history"}, "/history", "Show conversation history"},
	{[]string{"/copy"}, "/copy", "Copy last response to clipboard"},
	{[]string{"/save"}, "/save", "Save conversation to file"},
	{[]string{"/model"}, "/model [name|number]", "Show or switch model (e.g., /model 1.5-pro)"},
	{[]string{"/help", "/h"}, "/help, /h", "Show this help message"},
}

// commandWords lists every command name for completion
func commandWords() []string {
	var words []string
	for _, c := range commandHelp {
		words = append(words, c.names...)
	}
	return words
}

// ParseCommand parses a line starting with "/". It never fails: anything
// unrecognised becomes UnknownCommand.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	name, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	name = strings.ToLower(name)

	switch name {
	case "/exit", "/quit", "/q":
		return ExitCommand{}
	case "/clear", "/c":
		return ClearCommand{}
	case "/history":
		return HistoryCommand{}
	case "/copy":
		return CopyCommand{}
	case "/save":
		return SaveCommand{}
	case "/model":
		return ModelCommand{Arg: arg}
	case "/help", "/h":
		return HelpCommand{}
	default:
		return UnknownCommand{Name: name}
	}
}

// dispatch executes cmd against the session. Failures are reported on the
// console and never end the session.
func (s *InteractiveSession) dispatch(ctx context.Context, cmd Command) {
	switch c := cmd.(type) {
	case ExitCommand:
		s.active = false
	case ClearCommand:
		s.clearConversation(ctx)
	case HistoryCommand:
		s.showHistory()
	case CopyCommand:
		s.copyLastResponse()
	case SaveCommand:
		s.saveConversation()
	case ModelCommand:
		s.switchModel(c.Arg)
	case HelpCommand:
		s.showHelp()
	case UnknownCommand:
		s.console.ShowError(fmt.Sprintf("Unknown command: %s", c.Name))
		s.console.ShowInfo("Type /help for available commands")
	default:
		panic(fmt.Sprintf("unhandled command %T", cmd))
	}
}

func (s *InteractiveSession) clearConversation(ctx context.Context) {
	s.memory.Clear()
	s.lastResponse = ""
	err := s.session.StartSession(ctx, nil)
	s.console.Clear()
	s.console.ShowSuccess("Conversation cleared")
	if err != nil {
		logging.Warn("Failed to reset chat session", logging.Fields{"error": err.Error()})
		s.console.ShowWarning("Could not restart the chat session: " + err.Error())
		s.console.ShowInfo("A new session starts with your next message")
	}
}

func (s *InteractiveSession) showHistory() {
	msgs := s.memory.History(constants.HistoryCommandLimit)
	if len(msgs) == 0 {
		s.console.ShowWarning("No conversation history")
		return
	}

	s.console.ShowRule("Recent Conversation History")
	for _, m := range msgs {
		label := "Gemini"
		if m.Role == memory.RoleUser {
			label = "You"
		}
		if m.Timestamp != "" {
			label += " (" + m.Timestamp + ")"
		}
		s.console.Println("")
		s.console.Println(label)
		s.console.Println(previewText(m.Content, constants.HistoryPreviewWidth))
	}
	s.console.ShowRule("")
}

// previewText truncates text to width display cells, marking the cut with "..."
func previewText(text string, width int) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "") + "..."
}

func (s *InteractiveSession) copyLastResponse() {
	if s.lastResponse == "" {
		s.console.ShowWarning("No response to copy")
		return
	}

	res, err := s.clipboard.Copy(s.lastResponse)
	if err != nil {
		s.console.ShowError(err.Error())
		return
	}
	switch res.Outcome {
	case clipboard.Copied:
		s.console.ShowSuccess("Response copied to clipboard")
	case clipboard.SavedToFile:
		s.console.ShowWarning(fmt.Sprintf("Saved to %s (copy manually)", res.FallbackPath))
	}
}

func (s *InteractiveSession) saveConversation() {
	path := filepath.Join(s.homeDir, "gemini_conversation_"+s.now().Format("20060102_150405")+".md")
	if err := s.memory.ExportToFile(path); err != nil {
		s.console.ShowError(fmt.Sprintf("Failed to save conversation: %v", err))
		return
	}
	s.console.ShowSuccess(fmt.Sprintf("Conversation saved to %s", path))
}

func (s *InteractiveSession) switchModel(arg string) {
	if arg == "" {
		s.showModels()
		return
	}

	name, err := gemini.ResolveModel(arg, s.models)
	if err != nil {
		var rerr *gemini.ModelResolutionError
		if errors.As(err, &rerr) && len(rerr.Matches) > 1 {
			s.console.ShowError(fmt.Sprintf("Ambiguous model: %s", strings.Join(rerr.Matches, ", ")))
			return
		}
		s.console.ShowError(err.Error())
		return
	}

	if err := s.session.SetModel(name); err != nil {
		s.console.ShowError(fmt.Sprintf("Failed to switch model: %v", err))
		return
	}
	s.console.ShowSuccess(fmt.Sprintf("Switched to model: %s", name))
}

func (s *InteractiveSession) showModels() {
	s.console.ShowRule("Available Models")
	rows := make([][]string, 0, len(s.models))
	for i, m := range s.models {
		current := ""
		if m == s.session.Model() {
			current = "✓"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), m, current})
	}
	s.console.ShowTable([]string{"#", "Model", "Current"}, rows)
	s.console.ShowInfo("Use /model <number> or /model <name> to switch")
}

func (s *InteractiveSession) showHelp() {
	s.console.ShowRule("Available Commands")
	rows := make([][]string, 0, len(commandHelp))
	for _, c := range commandHelp {
		rows = append(rows, []string{c.usage, c.desc})
	}
	s.console.ShowTable([]string{"Command", "Description"}, rows)
}
