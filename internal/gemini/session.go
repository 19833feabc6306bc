package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/files"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

// Session is the chat capability the interactive loop drives.
// *Client implements it; tests substitute fakes.
type Session interface {
	// StartSession discards any live chat and starts one seeded with history
	StartSession(ctx context.Context, history []memory.Turn) error

	// SendMessage blocks until the complete reply is available
	SendMessage(ctx context.Context, text string, attachments ...string) (string, error)

	// SendMessageStream returns the reply as a single-pass stream
	SendMessageStream(ctx context.Context, text string, attachments ...string) (*Stream, error)

	// SetModel switches models and drops the live chat
	SetModel(name string) error

	// Model returns the current model name
	Model() string

	// History returns the SDK chat's view of the conversation
	History() []memory.Turn
}

// Ensure concrete type implements the interface
var _ Session = (*Client)(nil)

// GenerationParams are the sampling settings sent with every request
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// DefaultGenerationParams returns the stock sampling settings
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:     constants.DefaultTemperature,
		TopP:            constants.DefaultTopP,
		TopK:            constants.DefaultTopK,
		MaxOutputTokens: constants.DefaultMaxOutputTokens,
	}
}

// Options configures a Client
type Options struct {
	APIKey     string
	Model      string
	Generation GenerationParams

	// Models is the switchable model list; defaults to constants.Models
	Models []string

	// HTTPClient carries the request timeout and, with --debug, logging
	HTTPClient *http.Client

	// OnWarning receives per-attachment *UploadError values
	OnWarning func(error)
}

// Client is the genai-backed Session
type Client struct {
	backend   backend
	model     string
	models    []string
	gen       GenerationParams
	chat      chatSession
	sessionID string
	onWarning func(error)
}

// NewClient creates a Client talking to the Gemini API
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("API key is required")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, Classify(err)
	}

	return newClient(&genaiBackend{client: gc}, opts), nil
}

func newClient(b backend, opts Options) *Client {
	if opts.Model == "" {
		opts.Model = constants.DefaultModel
	}
	if len(opts.Models) == 0 {
		opts.Models = constants.Models
	}
	if opts.Generation == (GenerationParams{}) {
		opts.Generation = DefaultGenerationParams()
	}
	if opts.OnWarning == nil {
		opts.OnWarning = func(err error) {
			logging.Warn("Attachment skipped", logging.Fields{"error": err.Error()})
		}
	}
	return &Client{
		backend:   b,
		model:     opts.Model,
		models:    opts.Models,
		gen:       opts.Generation,
		onWarning: opts.OnWarning,
	}
}

// SetWarningHandler replaces the upload warning hook
func (c *Client) SetWarningHandler(fn func(error)) {
	if fn != nil {
		c.onWarning = fn
	}
}

// Model returns the current model name
func (c *Client) Model() string {
	return c.model
}

// Models returns the switchable model list
func (c *Client) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.gen.Temperature),
		TopP:            genai.Ptr(c.gen.TopP),
		TopK:            genai.Ptr(float32(c.gen.TopK)),
		MaxOutputTokens: int32(c.gen.MaxOutputTokens),
	}
}

// StartSession replaces the live chat with one seeded from history. On
// failure no chat is live and the next send starts an empty one.
func (c *Client) StartSession(ctx context.Context, history []memory.Turn) error {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, genai.Role(turn.Role)))
	}

	c.chat = nil
	chat, err := c.backend.CreateChat(ctx, c.model, c.generateConfig(), contents)
	if err != nil {
		return Classify(err)
	}

	c.chat = chat
	c.sessionID = uuid.NewString()
	logging.Debug("Chat session started", logging.Fields{
		"session_id": c.sessionID,
		"model":      c.model,
		"history":    len(contents),
	})
	return nil
}

// log scopes debug output to the live chat
func (c *Client) log() *logging.FieldLogger {
	return logging.DefaultLogger.WithFields(logging.Fields{"session_id": c.sessionID})
}

func (c *Client) ensureChat(ctx context.Context) error {
	if c.chat != nil {
		return nil
	}
	return c.StartSession(ctx, nil)
}

// SetModel switches to name, which must be in the model list.
// The live chat is dropped; the next send starts an empty one.
func (c *Client) SetModel(name string) error {
	if !IsKnownModel(name, c.models) {
		return &UnknownModelError{Name: name, Available: c.Models()}
	}
	logging.Info("Model switched", logging.Fields{"from": c.model, "to": name})
	c.model = name
	c.chat = nil
	return nil
}

// parts turns text and attachment paths into message parts. Attachments
// that fail to upload are reported through the warning hook and skipped.
func (c *Client) parts(ctx context.Context, text string, attachments []string) []genai.Part {
	parts := []genai.Part{{Text: text}}
	for _, path := range attachments {
		upCtx, cancel := context.WithTimeout(ctx, constants.DefaultUploadTimeout)
		f, err := c.backend.UploadFile(upCtx, path, files.MimeType(path))
		cancel()
		if err != nil {
			c.onWarning(&UploadError{Path: path, Err: Classify(err)})
			continue
		}
		c.log().Debug("Attachment uploaded", logging.Fields{"path": path, "uri": f.URI})
		parts = append(parts, *genai.NewPartFromURI(f.URI, f.MIMEType))
	}
	return parts
}

// SendMessage sends text and attachments in the live chat and waits for
// the complete reply.
func (c *Client) SendMessage(ctx context.Context, text string, attachments ...string) (string, error) {
	if err := c.ensureChat(ctx); err != nil {
		return "", err
	}

	resp, err := c.chat.SendMessage(ctx, c.parts(ctx, text, attachments)...)
	if err != nil {
		return "", Classify(err)
	}
	return resp.Text(), nil
}

// SendMessageStream sends text and attachments in the live chat and
// returns the reply as a Stream.
func (c *Client) SendMessageStream(ctx context.Context, text string, attachments ...string) (*Stream, error) {
	if err := c.ensureChat(ctx); err != nil {
		return nil, err
	}
	return NewStream(c.chat.SendMessageStream(ctx, c.parts(ctx, text, attachments)...)), nil
}

// Prompt is a one-shot request with its attachments already uploaded.
// Sending it again does not upload the files again.
type Prompt struct {
	Text     string
	contents []*genai.Content
}

// NewPrompt uploads attachments and builds a one-shot request. Failed
// uploads go to the warning hook and are left out.
func (c *Client) NewPrompt(ctx context.Context, text string, attachments ...string) Prompt {
	parts := c.parts(ctx, text, attachments)
	ptrs := make([]*genai.Part, len(parts))
	for i := range parts {
		ptrs[i] = &parts[i]
	}
	return Prompt{Text: text, contents: []*genai.Content{{Role: string(genai.RoleUser), Parts: ptrs}}}
}

func (p Prompt) request() []*genai.Content {
	if p.contents == nil {
		return []*genai.Content{genai.NewContentFromText(p.Text, genai.RoleUser)}
	}
	return p.contents
}

// Generate produces a reply to p outside any chat
func (c *Client) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := c.backend.GenerateContent(ctx, c.model, p.request(), c.generateConfig())
	if err != nil {
		return "", Classify(err)
	}
	return resp.Text(), nil
}

// GenerateStream is the streaming form of Generate
func (c *Client) GenerateStream(ctx context.Context, p Prompt) *Stream {
	return NewStream(c.backend.GenerateContentStream(ctx, c.model, p.request(), c.generateConfig()))
}

// History returns the live chat's turns, empty when no chat is live
func (c *Client) History() []memory.Turn {
	if c.chat == nil {
		return nil
	}
	var turns []memory.Turn
	for _, content := range c.chat.History(false) {
		if content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		turns = append(turns, memory.Turn{Role: memory.Role(content.Role), Content: b.String()})
	}
	return turns
}
