// Package display renders chat output to the terminal: markdown replies,
// tables, panels, severity-tagged status lines, streamed fragments and a
// spinner for blocking requests.
//
// A Console writing to something other than a terminal falls back to plain
// text with no colors, no markdown styling and no spinner, so output stays
// clean when piped or captured in tests.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
)

// Options configures a Console
type Options struct {
	// Out defaults to os.Stdout
	Out io.Writer
	// Plain forces unstyled output; it is implied when Out is not a terminal
	Plain bool
	// Theme is the chroma theme for code blocks
	Theme string
	// SyntaxHighlighting enables colored code blocks
	SyntaxHighlighting bool
	// Width is the markdown wrap width; 0 means the terminal width, capped at 100
	Width int
}

// Console is the terminal renderer
type Console struct {
	out   io.Writer
	plain bool
	width int

	theme     string
	highlight bool

	rendererOnce sync.Once
	renderer     *glamour.TermRenderer

	// inFragments is set while streamed text is being written
	inFragments bool
	lastByte    byte

	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	borderStyle  lipgloss.Style
}

// New creates a Console
func New(opts Options) *Console {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Theme == "" {
		opts.Theme = constants.DefaultTheme
	}

	c := &Console{
		out:       opts.Out,
		plain:     opts.Plain || !isTerminal(opts.Out),
		width:     opts.Width,
		theme:     opts.Theme,
		highlight: opts.SyntaxHighlighting,
	}
	if c.width <= 0 {
		c.width = terminalWidth(opts.Out)
	}

	c.errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	c.successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	c.warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	c.infoStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	c.dimStyle = lipgloss.NewStyle().Faint(true)
	c.headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1)
	c.cellStyle = lipgloss.NewStyle().Padding(0, 1)
	c.borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return c
}

// Default is the console used by the package-level helpers
var Default = New(Options{})

// SetDefault replaces the package-level console
func SetDefault(c *Console) {
	if c != nil {
		Default = c
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			if width > 100 {
				return 100
			}
			return width
		}
	}
	return 80
}

// Plain reports whether styling is disabled
func (c *Console) Plain() bool {
	return c.plain
}

// Out returns the underlying writer
func (c *Console) Out() io.Writer {
	return c.out
}

func (c *Console) style(s lipgloss.Style, text string) string {
	if c.plain {
		return text
	}
	return s.Render(text)
}

// Println writes text followed by a newline
func (c *Console) Println(text string) {
	c.EndFragments()
	fmt.Fprintln(c.out, text)
}

// Printf writes formatted text
func (c *Console) Printf(format string, args ...interface{}) {
	c.EndFragments()
	fmt.Fprintf(c.out, format, args...)
}

// ShowDim writes a faint line, used for timestamps and hints
func (c *Console) ShowDim(text string) {
	c.Println(c.style(c.dimStyle, text))
}

// ShowError writes an error status line
func (c *Console) ShowError(msg string) {
	c.Println(c.style(c.errorStyle, "✗ Error:") + " " + msg)
}

// ShowSuccess writes a success status line
func (c *Console) ShowSuccess(msg string) {
	c.Println(c.style(c.successStyle, "✓ Success:") + " " + msg)
}

// ShowWarning writes a warning status line
func (c *Console) ShowWarning(msg string) {
	c.Println(c.style(c.warningStyle, "⚠ Warning:") + " " + msg)
}

// ShowInfo writes an informational status line
func (c *Console) ShowInfo(msg string) {
	c.Println(c.style(c.infoStyle, "ℹ Info:") + " " + msg)
}

// ShowTable renders headers and rows with a rounded border
func (c *Console) ShowTable(headers []string, rows [][]string) {
	if c.plain {
		c.Println(plainTable(headers, rows))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.headerStyle
			}
			return c.cellStyle
		})
	c.Println(t.Render())
}

// plainTable aligns columns with spaces
func plainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for i := range widths {
		b.WriteString(strings.Repeat("-", widths[i]))
		if i < len(widths)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ShowPanel renders body inside a titled rounded box
func (c *Console) ShowPanel(title, body string) {
	if c.plain {
		if title != "" {
			c.Println("== " + title + " ==")
		}
		c.Println(body)
		return
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1)
	content := body
	if title != "" {
		content = lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + body
	}
	c.Println(box.Render(content))
}

// ShowRule draws a horizontal line, with an optional centered title
func (c *Console) ShowRule(title string) {
	width := c.width
	if title == "" {
		c.Println(c.style(c.dimStyle, strings.Repeat("─", width)))
		return
	}
	label := " " + title + " "
	side := (width - lipgloss.Width(label)) / 2
	if side < 2 {
		side = 2
	}
	c.Println(c.style(c.dimStyle, strings.Repeat("─", side)+label+strings.Repeat("─", side)))
}

// Clear clears the screen on terminals
func (c *Console) Clear() {
	if c.plain {
		return
	}
	fmt.Fprint(c.out, "\033[H\033[2J")
}

// Package-level helpers using Default

// ShowError writes an error line to the default console
func ShowError(msg string) { Default.ShowError(msg) }

// ShowSuccess writes a success line to the default console
func ShowSuccess(msg string) { Default.ShowSuccess(msg) }

// ShowWarning writes a warning line to the default console
func ShowWarning(msg string) { Default.ShowWarning(msg) }

// ShowInfo writes an info line to the default console
func ShowInfo(msg string) { Default.ShowInfo(msg) }

// styleConfig picks the glamour style for the background and applies the
// code theme.
func (c *Console) styleConfig() glamour.TermRendererOption {
	cfg := styles.DarkStyleConfig
	if !lipgloss.HasDarkBackground() {
		cfg = styles.LightStyleConfig
	}
	if c.highlight {
		cfg.CodeBlock.Theme = c.theme
	} else {
		cfg.CodeBlock.Theme = ""
		cfg.CodeBlock.Chroma = nil
	}
	return glamour.WithStyles(cfg)
}
