package gemini

import (
	"context"
	"errors"
	"iter"
	"strings"

	"google.golang.org/genai"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func finishResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
	}
}

func partsText(parts []genai.Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// fakeChat mimics the SDK chat: history grows only when a reply completes
type fakeChat struct {
	model   string
	history []*genai.Content
	chunks  []string
	err     error
	sent    [][]genai.Part
}

func (f *fakeChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.sent = append(f.sent, parts)
	if f.err != nil {
		return nil, f.err
	}
	reply := strings.Join(f.chunks, "")
	f.record(parts, reply)
	return textResponse(reply), nil
}

func (f *fakeChat) SendMessageStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.sent = append(f.sent, parts)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		var acc strings.Builder
		for _, c := range f.chunks {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			acc.WriteString(c)
			if !yield(textResponse(c), nil) {
				return
			}
		}
		if !yield(finishResponse(), nil) {
			return
		}
		f.record(parts, acc.String())
	}
}

func (f *fakeChat) record(parts []genai.Part, reply string) {
	f.history = append(f.history,
		genai.NewContentFromText(partsText(parts), genai.RoleUser),
		genai.NewContentFromText(reply, genai.RoleModel),
	)
}

func (f *fakeChat) History(curated bool) []*genai.Content {
	return f.history
}

type fakeBackend struct {
	chats     []*fakeChat
	chunks    []string
	sendErr   error
	createErr error
	uploadErr map[string]error
	uploaded  []string
	genPrompt string
	genCalls  int
	lastCfg   *genai.GenerateContentConfig
}

func (b *fakeBackend) CreateChat(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.lastCfg = config
	chat := &fakeChat{model: model, history: append([]*genai.Content(nil), history...), chunks: b.chunks, err: b.sendErr}
	b.chats = append(b.chats, chat)
	return chat, nil
}

func (b *fakeBackend) latest() *fakeChat {
	if len(b.chats) == 0 {
		return nil
	}
	return b.chats[len(b.chats)-1]
}

func (b *fakeBackend) UploadFile(ctx context.Context, path, mimeType string) (*genai.File, error) {
	if err := b.uploadErr[path]; err != nil {
		return nil, err
	}
	b.uploaded = append(b.uploaded, path)
	return &genai.File{URI: "https://files.example/" + path, MIMEType: mimeType}, nil
}

func (b *fakeBackend) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if b.sendErr != nil {
		return nil, b.sendErr
	}
	b.genPrompt = contents[0].Parts[0].Text
	b.genCalls++
	return textResponse(strings.Join(b.chunks, "")), nil
}

func (b *fakeBackend) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	b.genPrompt = contents[0].Parts[0].Text
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range b.chunks {
			if !yield(textResponse(c), nil) {
				return
			}
		}
		yield(finishResponse(), nil)
	}
}

var errBoom = errors.New("boom")
