package cmd

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

func roles(msgs []memory.Message) []memory.Role {
	out := make([]memory.Role, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

func TestRun_StreamedTurn(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.client.chunks = []string{"Hi", " there"}

	require.NoError(t, s.Run(context.Background()))

	msgs := s.store.History(0)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, memory.RoleModel, msgs[1].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.Equal(t, "Hi there", s.lastResponse)

	out := s.out.String()
	assert.Contains(t, out, "[Gemini] Hi there\n")
	assert.Contains(t, out, "Goodbye! 👋")
	assert.Equal(t, stateTerminated, s.state)

	_, err := os.Stat(s.store.Path())
	assert.NoError(t, err, "memory is saved after a reply")
}

func TestRun_BlockingTurn(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.cfg.UI.Streaming = false
	s.client.reply = "**bold** answer"

	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, s.out.String(), "**bold** answer")
	assert.Equal(t, []memory.Role{memory.RoleUser, memory.RoleModel}, roles(s.store.History(0)))
}

func TestRun_SeedsSessionFromMemory(t *testing.T) {
	s := newTestSession(t, lines())
	for i := 0; i < 12; i++ {
		s.store.Add(memory.RoleUser, "m")
	}

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, s.client.started, 1)
	assert.Len(t, s.client.started[0], memory.DefaultContextLimit)
}

func TestRun_StartFailure(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.client.startErr = errors.New("no network")

	err := s.Run(context.Background())

	assert.Error(t, err)
	assert.Empty(t, s.client.sent)
}

func TestRun_BlankAndSlashLines(t *testing.T) {
	s := newTestSession(t, lines("", "   ", "/help", "/exit", "never read"))

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, s.client.sent)
	assert.Equal(t, 0, s.store.Len())
	assert.Contains(t, s.out.String(), "Available Commands")
}

func TestRun_ExitStopsReading(t *testing.T) {
	in := lines("/exit", "hello")
	s := newTestSession(t, in)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 1, in.next)
	assert.Empty(t, s.client.sent)
}

func TestRun_InterruptAtPrompt(t *testing.T) {
	in := &scriptedInput{lines: []inputLine{{err: ErrInterrupted}, {text: "hello"}}}
	s := newTestSession(t, in)
	s.client.chunks = []string{"ok"}

	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, s.out.String(), "Use /exit to quit")
	assert.Len(t, s.client.sent, 1, "the loop continues after Ctrl+C at the prompt")
}

func TestRun_InputError(t *testing.T) {
	in := &scriptedInput{lines: []inputLine{{err: errors.New("tty gone")}}}
	s := newTestSession(t, in)

	err := s.Run(context.Background())

	assert.ErrorContains(t, err, "tty gone")
	assert.Contains(t, s.out.String(), "Goodbye! 👋")
}

func TestRun_TransientErrorContinues(t *testing.T) {
	s := newTestSession(t, lines("first", "second"))
	s.client.sendErr = &gemini.TransientError{StatusCode: 503, Err: errors.New("unavailable")}

	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, s.client.sent, 2)
	assert.Equal(t, []memory.Role{memory.RoleUser, memory.RoleUser}, roles(s.store.History(0)),
		"failed sends keep the user message and record no reply")
	assert.Contains(t, s.out.String(), "please try again")
}

func TestRun_AuthErrorTerminates(t *testing.T) {
	in := lines("first", "second")
	s := newTestSession(t, in)
	s.client.sendErr = &gemini.AuthError{StatusCode: 403, Err: errors.New("forbidden")}

	err := s.Run(context.Background())

	var authErr *gemini.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, in.next)
	assert.Contains(t, s.out.String(), "gemini-termux setup")
	assert.Equal(t, stateTerminated, s.state)
}

func TestRun_StreamErrorKeepsNoReply(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.client.chunks = []string{"partial"}
	s.client.streamErr = &gemini.TransientError{StatusCode: 500, Err: errors.New("reset")}

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []memory.Role{memory.RoleUser}, roles(s.store.History(0)))
	assert.Empty(t, s.lastResponse)
}

func TestRun_TruncatedStreamIsNotStored(t *testing.T) {
	s := newTestSession(t, lines("write an essay"))
	s.client.chunks = []string{"First paragraph. ", "Second"}
	s.client.truncated = true

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []memory.Role{memory.RoleUser}, roles(s.store.History(0)))
	assert.Empty(t, s.lastResponse)
	out := s.out.String()
	assert.Contains(t, out, "An error occurred:")
	assert.Contains(t, out, gemini.ErrIncompleteStream.Error())
	assert.Contains(t, out, "please try again")
}

func TestRun_InterruptDuringStream(t *testing.T) {
	s := newTestSession(t, lines("tell me a story", "/exit"))
	var cancel context.CancelFunc
	s.sendContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		c, cf := context.WithCancel(ctx)
		cancel = cf
		return c, cf
	}
	s.client.chunks = []string{"Once upon", " a time"}
	s.client.afterFirstChunk = func() { cancel() }

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, "Once upon", s.lastResponse, "the partial reply is kept for /copy")
	assert.Equal(t, []memory.Role{memory.RoleUser}, roles(s.store.History(0)),
		"an interrupted reply is not recorded")
	assert.Contains(t, s.out.String(), "Response interrupted")
}

func TestRun_AttachmentsGoWithFirstMessage(t *testing.T) {
	s := newTestSession(t, lines("describe", "and now?"))
	s.pending = []string{"photo.jpg", "notes.txt"}
	s.client.chunks = []string{"ok"}

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, s.client.sent, 2)
	assert.Equal(t, []string{"photo.jpg", "notes.txt"}, s.client.sent[0].attachments)
	assert.Empty(t, s.client.sent[1].attachments)
	assert.Contains(t, s.out.String(), "2 attachment(s) will be sent")
}

func TestRun_ShowTimestamps(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.cfg.UI.ShowTimestamps = true
	s.client.chunks = []string{"ok"}

	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, s.out.String(), "(14:05:07)")
}

func TestRun_HistoryDisabledWritesNothing(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.persist = false
	s.client.chunks = []string{"ok"}

	require.NoError(t, s.Run(context.Background()))

	_, err := os.Stat(s.store.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 2, s.store.Len())
}

func TestRun_AutoSaveOffStillSavesOnExit(t *testing.T) {
	s := newTestSession(t, lines("hello"))
	s.cfg.History.AutoSave = false
	s.client.chunks = []string{"ok"}

	require.NoError(t, s.Run(context.Background()))

	loaded, err := memory.Open(s.store.Path(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}

func TestRun_AutoCopyCode(t *testing.T) {
	s := newTestSession(t, lines("code please"))
	s.cfg.Clipboard.AutoCopyCode = true
	s.client.chunks = []string{"Here:\n```go\nfmt.Println(1)\n```\nDone."}

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"fmt.Println(1)"}, s.clip.copied)
	assert.Contains(t, s.out.String(), "Code block copied to clipboard")
}

func TestFirstCodeBlock(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"none", "plain text", "", false},
		{"unterminated", "```go\nx := 1", "", false},
		{"single", "a\n```\nline1\nline2\n```\nb", "line1\nline2", true},
		{"first of two", "```\none\n```\n```\ntwo\n```", "one", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstCodeBlock(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "awaiting-input", stateAwaitingInput.String())
	assert.Equal(t, "terminated", stateTerminated.String())
	assert.Equal(t, "unknown", sessionState(99).String())
}
