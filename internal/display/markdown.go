package display

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

func (c *Console) markdownRenderer() *glamour.TermRenderer {
	c.rendererOnce.Do(func() {
		if c.plain {
			return
		}
		r, err := glamour.NewTermRenderer(
			c.styleConfig(),
			glamour.WithWordWrap(c.width),
			glamour.WithEmoji(),
		)
		if err != nil {
			// Fallback to plain text if renderer initialization fails
			return
		}
		c.renderer = r
	})
	return c.renderer
}

// RenderMarkdown returns content rendered for the terminal, or unchanged
// when styling is disabled or rendering fails.
func (c *Console) RenderMarkdown(content string) string {
	r := c.markdownRenderer()
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// ShowContentRendered writes a markdown reply
func (c *Console) ShowContentRendered(content string) {
	c.Println(c.RenderMarkdown(content))
}

// ShowContent writes a reply as-is
func (c *Console) ShowContent(content string) {
	c.Println(content)
}

// WriteFragment appends streamed text without a trailing newline
func (c *Console) WriteFragment(text string) {
	if text == "" {
		return
	}
	c.inFragments = true
	_, _ = c.out.Write([]byte(text))
	c.lastByte = text[len(text)-1]
}

// EndFragments terminates a run of fragments with a newline if needed
func (c *Console) EndFragments() {
	if !c.inFragments {
		return
	}
	c.inFragments = false
	if c.lastByte != '\n' {
		_, _ = c.out.Write([]byte("\n"))
	}
}
