package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/Alex72-py/gemini-cli-termux/internal/clipboard"
	"github.com/Alex72-py/gemini-cli-termux/internal/config"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/display"
	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

type sentMessage struct {
	text        string
	attachments []string
}

// MockChatClient implements ChatClient for testing
type MockChatClient struct {
	model  string
	models []string

	reply     string
	chunks    []string
	streamErr error
	sendErr   error
	startErr  error

	// genErrs fail the first Generate calls in order
	genErrs []error
	// truncated ends streams without a finish reason
	truncated bool

	// afterFirstChunk runs once the first stream chunk has been consumed
	afterFirstChunk func()

	started   [][]memory.Turn
	sent      []sentMessage
	setModels []string
	genPrompt string
	genCalls  int
	warn      func(error)
}

func NewMockChatClient() *MockChatClient {
	return &MockChatClient{model: constants.DefaultModel, models: constants.Models}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func finishResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
	}
}

func (m *MockChatClient) stream(ctx context.Context) *gemini.Stream {
	chunks, streamErr, after, truncated := m.chunks, m.streamErr, m.afterFirstChunk, m.truncated
	return gemini.NewStream(func(yield func(*genai.GenerateContentResponse, error) bool) {
		for i, c := range chunks {
			if !yield(textResponse(c), nil) {
				return
			}
			if i == 0 && after != nil {
				after()
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
		}
		if streamErr != nil {
			yield(nil, streamErr)
			return
		}
		if !truncated {
			yield(finishResponse(), nil)
		}
	})
}

func (m *MockChatClient) StartSession(ctx context.Context, history []memory.Turn) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = append(m.started, history)
	return nil
}

func (m *MockChatClient) SendMessage(ctx context.Context, text string, attachments ...string) (string, error) {
	m.sent = append(m.sent, sentMessage{text, attachments})
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return m.reply, nil
}

func (m *MockChatClient) SendMessageStream(ctx context.Context, text string, attachments ...string) (*gemini.Stream, error) {
	m.sent = append(m.sent, sentMessage{text, attachments})
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return m.stream(ctx), nil
}

func (m *MockChatClient) SetModel(name string) error {
	if !gemini.IsKnownModel(name, m.models) {
		return &gemini.UnknownModelError{Name: name, Available: m.models}
	}
	m.setModels = append(m.setModels, name)
	m.model = name
	return nil
}

func (m *MockChatClient) Model() string { return m.model }
func (m *MockChatClient) Models() []string { return m.models }
func (m *MockChatClient) History() []memory.Turn { return nil }
func (m *MockChatClient) SetWarningHandler(fn func(error)) { m.warn = fn }

func (m *MockChatClient) NewPrompt(ctx context.Context, text string, attachments ...string) gemini.Prompt {
	m.sent = append(m.sent, sentMessage{text, attachments})
	return gemini.Prompt{Text: text}
}

func (m *MockChatClient) Generate(ctx context.Context, p gemini.Prompt) (string, error) {
	m.genPrompt = p.Text
	m.genCalls++
	if len(m.genErrs) > 0 {
		err := m.genErrs[0]
		m.genErrs = m.genErrs[1:]
		return "", err
	}
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return m.reply, nil
}

func (m *MockChatClient) GenerateStream(ctx context.Context, p gemini.Prompt) *gemini.Stream {
	m.genPrompt = p.Text
	m.genCalls++
	return m.stream(ctx)
}

var _ ChatClient = (*MockChatClient)(nil)

type inputLine struct {
	text string
	err  error
}

// scriptedInput replays lines, then returns io.EOF
type scriptedInput struct {
	lines  []inputLine
	next   int
	closed bool
}

func lines(texts ...string) *scriptedInput {
	in := &scriptedInput{}
	for _, t := range texts {
		in.lines = append(in.lines, inputLine{text: t})
	}
	return in
}

func (s *scriptedInput) ReadLine(prompt string) (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	l := s.lines[s.next]
	s.next++
	return l.text, l.err
}

func (s *scriptedInput) Close() error {
	s.closed = true
	return nil
}

// fakeClipboard records copies
type fakeClipboard struct {
	copied []string
	result clipboard.Result
	err    error
}

func (f *fakeClipboard) Copy(text string) (clipboard.Result, error) {
	if f.err != nil {
		return clipboard.Result{}, f.err
	}
	f.copied = append(f.copied, text)
	if f.result == (clipboard.Result{}) {
		return clipboard.Result{Outcome: clipboard.Copied, Backend: "fake"}, nil
	}
	return f.result, nil
}

type testSession struct {
	*InteractiveSession
	client *MockChatClient
	store  *memory.Store
	clip   *fakeClipboard
	out    *bytes.Buffer
	home   string
}

func newTestSession(t *testing.T, input LineReader) *testSession {
	t.Helper()
	home := t.TempDir()
	out := &bytes.Buffer{}
	cfg := config.Default()
	cfg.UI.ShowTimestamps = false

	ts := &testSession{
		client: NewMockChatClient(),
		store:  memory.New(home+"/history.json", 100),
		clip:   &fakeClipboard{},
		out:    out,
		home:   home,
	}
	ts.InteractiveSession = NewInteractiveSession(SessionDeps{
		Config:    cfg,
		Console:   display.New(display.Options{Out: out}),
		Memory:    ts.store,
		Session:   ts.client,
		Clipboard: ts.clip,
		Input:     input,
		Persist:   true,
		HomeDir:   home,
	})
	ts.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) }
	ts.sendContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}
	return ts
}
