package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Alex72-py/gemini-cli-termux/internal/clipboard"
	"github.com/Alex72-py/gemini-cli-termux/internal/config"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/display"
	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

const inputPrompt = "[You] ❯ "

// sessionState tracks where the chat loop is
type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingInput
	stateDispatching
	stateSending
	stateRendering
	stateTerminated
)

func (s sessionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingInput:
		return "awaiting-input"
	case stateDispatching:
		return "dispatching"
	case stateSending:
		return "sending"
	case stateRendering:
		return "rendering"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Clipboard is the copy capability used by /copy and auto-copy
type Clipboard interface {
	Copy(text string) (clipboard.Result, error)
}

// InteractiveSession holds the state for an interactive chat session.
// It owns the line reader, conversation memory and remote session.
type InteractiveSession struct {
	cfg       *config.Config
	console   *display.Console
	memory    memory.Manager
	session   gemini.Session
	clipboard Clipboard
	input     LineReader
	models    []string

	state        sessionState
	active       bool
	lastResponse string
	// pending attachments go out with the first chat message
	pending []string
	// persist is false when history.enabled is off
	persist bool

	homeDir string
	now     func() time.Time
	// sendContext scopes one request; Ctrl+C cancels it
	sendContext func(context.Context) (context.Context, context.CancelFunc)
}

// SessionDeps are the collaborators of an InteractiveSession
type SessionDeps struct {
	Config      *config.Config
	Console     *display.Console
	Memory      memory.Manager
	Session     gemini.Session
	Clipboard   Clipboard
	Input       LineReader
	Models      []string
	Attachments []string
	Persist     bool
	HomeDir     string
}

// NewInteractiveSession wires a session from deps
func NewInteractiveSession(deps SessionDeps) *InteractiveSession {
	if deps.Models == nil {
		deps.Models = constants.Models
	}
	if deps.Console == nil {
		deps.Console = display.Default
	}
	return &InteractiveSession{
		cfg:       deps.Config,
		console:   deps.Console,
		memory:    deps.Memory,
		session:   deps.Session,
		clipboard: deps.Clipboard,
		input:     deps.Input,
		models:    deps.Models,
		pending:   deps.Attachments,
		persist:   deps.Persist,
		homeDir:   deps.HomeDir,
		now:       time.Now,
		sendContext: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
}

// Run seeds the remote session from memory and reads input until /exit,
// end of input, or an authentication failure. Only the latter is returned
// as an error.
func (s *InteractiveSession) Run(ctx context.Context) error {
	if err := s.session.StartSession(ctx, s.memory.ContextForAPI(memory.DefaultContextLimit)); err != nil {
		s.console.ShowError(err.Error())
		return err
	}

	s.showWelcome()
	s.active = true

	for s.active {
		s.state = stateAwaitingInput
		line, err := s.input.ReadLine(inputPrompt)
		switch {
		case errors.Is(err, ErrInterrupted):
			s.console.Println("")
			s.console.ShowWarning("Use /exit to quit")
			continue
		case errors.Is(err, io.EOF):
			s.active = false
			continue
		case err != nil:
			s.terminate()
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := s.handleLine(ctx, line); err != nil {
			s.terminate()
			return err
		}
	}

	s.terminate()
	return nil
}

func (s *InteractiveSession) showWelcome() {
	s.console.ShowPanel("Welcome",
		"🤖 Gemini Chat Interface\n"+
			"Type your message and press Enter\n"+
			"Type /help for available commands")
	s.console.ShowDim(fmt.Sprintf("Model: %s", s.session.Model()))
	if len(s.pending) > 0 {
		s.console.ShowInfo(fmt.Sprintf("%d attachment(s) will be sent with your first message", len(s.pending)))
	}
}

func (s *InteractiveSession) terminate() {
	s.state = stateTerminated
	s.active = false
	if s.persist {
		if err := s.memory.Save(); err != nil {
			s.console.ShowWarning(err.Error())
		}
	}
	s.console.Println("")
	s.console.Println("Goodbye! 👋")
}

// handleLine processes one input line. The returned error ends the loop.
func (s *InteractiveSession) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if strings.HasPrefix(line, "/") {
		s.state = stateDispatching
		s.dispatch(ctx, ParseCommand(line))
		return nil
	}
	return s.chat(ctx, line)
}

// chat sends one user message and records the reply
func (s *InteractiveSession) chat(ctx context.Context, text string) error {
	s.state = stateSending
	if s.cfg.UI.ShowTimestamps {
		s.console.ShowDim("(" + s.now().Format("15:04:05") + ")")
	}

	s.memory.Add(memory.RoleUser, text)
	attachments := s.pending
	s.pending = nil

	sendCtx, stop := s.sendContext(ctx)
	defer stop()

	var reply string
	var err error
	if s.cfg.UI.Streaming {
		reply, err = s.streamReply(sendCtx, text, attachments)
	} else {
		reply, err = s.blockingReply(sendCtx, text, attachments)
	}

	if err != nil {
		return s.sendFailed(ctx, sendCtx, reply, err)
	}

	s.lastResponse = reply
	s.memory.Add(memory.RoleModel, reply)
	logging.Debug("Turn complete", logging.Fields{"model": s.session.Model(), "reply_len": len(reply)})

	s.autoCopyCode(reply)
	if s.persist && s.cfg.History.AutoSave {
		if err := s.memory.Save(); err != nil {
			s.console.ShowWarning(err.Error())
		}
	}
	return nil
}

func (s *InteractiveSession) streamReply(ctx context.Context, text string, attachments []string) (string, error) {
	stream, err := s.session.SendMessageStream(ctx, text, attachments...)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	s.state = stateRendering
	s.console.Println("")
	s.console.WriteFragment("[Gemini] ")

	var b strings.Builder
	for stream.Next() {
		s.console.WriteFragment(stream.Text())
		b.WriteString(stream.Text())
	}
	s.console.EndFragments()

	if err := stream.Err(); err != nil {
		return b.String(), err
	}
	if err := ctx.Err(); err != nil {
		return b.String(), err
	}
	return b.String(), nil
}

func (s *InteractiveSession) blockingReply(ctx context.Context, text string, attachments []string) (string, error) {
	spin := s.console.NewSpinner("Thinking...")
	spin.Start()
	reply, err := s.session.SendMessage(ctx, text, attachments...)
	spin.Stop()
	if err != nil {
		return "", err
	}

	s.state = stateRendering
	s.console.Println("")
	s.console.Println("[Gemini]")
	s.console.ShowContentRendered(reply)
	return reply, nil
}

// sendFailed reports a failed send. The user message stays in memory and
// no model message is recorded. Only authentication errors are returned.
func (s *InteractiveSession) sendFailed(ctx, sendCtx context.Context, partial string, err error) error {
	if ctx.Err() == nil && sendCtx.Err() != nil {
		if partial != "" {
			s.lastResponse = partial
		}
		s.console.Println("")
		s.console.ShowWarning("Response interrupted")
		return nil
	}

	var authErr *gemini.AuthError
	if errors.As(err, &authErr) {
		s.console.ShowError(err.Error())
		s.console.ShowInfo("Run 'gemini-termux setup' to configure a valid API key")
		return err
	}

	s.console.ShowError(fmt.Sprintf("An error occurred: %v", err))
	if gemini.IsTransient(err) {
		s.console.ShowInfo("This looks temporary, please try again")
	}
	logging.Warn("Send failed", logging.Fields{"error": err.Error()})
	return nil
}

func (s *InteractiveSession) autoCopyCode(reply string) {
	if !s.cfg.Clipboard.AutoCopyCode || s.clipboard == nil {
		return
	}
	code, ok := firstCodeBlock(reply)
	if !ok {
		return
	}
	res, err := s.clipboard.Copy(code)
	if err != nil {
		s.console.ShowWarning(err.Error())
		return
	}
	if res.Outcome == clipboard.SavedToFile {
		s.console.ShowDim(fmt.Sprintf("Code block saved to %s", res.FallbackPath))
		return
	}
	s.console.ShowDim("Code block copied to clipboard")
}

// firstCodeBlock returns the body of the first fenced code block in text
func firstCodeBlock(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		if start < 0 {
			start = i + 1
			continue
		}
		return strings.Join(lines[start:i], "\n"), true
	}
	return "", false
}
