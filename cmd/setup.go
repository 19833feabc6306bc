package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Alex72-py/gemini-cli-termux/internal/auth"
	"github.com/Alex72-py/gemini-cli-termux/internal/config"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
)

// Prompter asks the user for setup answers
type Prompter interface {
	// Line reads a visible answer
	Line(question string) (string, error)
	// Secret reads an answer without echo
	Secret(question string) (string, error)
	// Choose reads one of options, offering completion where supported
	Choose(question string, options []string) (string, error)
}

// terminalPrompter uses go-prompt and hidden input on a terminal and
// plain line reads otherwise.
type terminalPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	tty    bool
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	tty := false
	if f, ok := in.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &terminalPrompter{in: in, out: out, reader: bufio.NewReader(in), tty: tty}
}

func (p *terminalPrompter) Line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *terminalPrompter) Secret(question string) (string, error) {
	if !p.tty {
		return p.Line(question)
	}
	fmt.Fprint(p.out, question)
	b, err := term.ReadPassword(int(p.in.(*os.File).Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *terminalPrompter) Choose(question string, options []string) (string, error) {
	if !p.tty {
		return p.Line(question)
	}
	answer := prompt.Input(
		prompt.WithPrefix(question),
		prompt.WithCompleter(optionCompleter(options)),
		prompt.WithPrefixTextColor(prompt.Green),
	)
	return strings.TrimSpace(answer), nil
}

// optionCompleter suggests the numbered options matching the typed prefix
func optionCompleter(options []string) prompt.Completer {
	suggestions := make([]prompt.Suggest, len(options))
	for i, o := range options {
		suggestions[i] = prompt.Suggest{Text: o, Description: fmt.Sprintf("#%d", i+1)}
	}
	return func(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
		endIndex := d.CurrentRuneIndex()
		w := d.GetWordBeforeCursor()
		startIndex := endIndex - istrings.RuneCountInString(w)
		return prompt.FilterContains(suggestions, w, true), startIndex, endIndex
	}
}

func (app *App) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run initial setup wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSetup(app.newPrompter())
		},
	}
}

func (app *App) runSetup(p Prompter) error {
	c := app.console
	c.ShowPanel("Setup Wizard", "🚀 Welcome to Gemini CLI for Termux!\n\nLet's get you set up in a few steps.")

	if _, src, err := app.keys.Lookup(); err == nil {
		c.ShowWarning("API key already configured")
		if src == auth.SourceEnv {
			c.ShowInfo(constants.EnvAPIKey + " is set and takes precedence over the saved key")
		}
		answer, err := p.Line("Do you want to replace it? (y/N): ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			c.ShowInfo("Setup cancelled")
			return nil
		}
	}

	c.Println("")
	c.Println("Step 1: API Key")
	c.Println("Get your API key from: https://aistudio.google.com/app/apikey")
	for {
		key, err := p.Secret("Enter your API key: ")
		if err != nil {
			return err
		}
		if key == "" {
			c.ShowError("API key cannot be empty")
			continue
		}
		if err := auth.Validate(key); err != nil {
			c.ShowError("Invalid API key format: " + err.Error())
			retry, err := p.Line("Try again? (Y/n): ")
			if err != nil {
				return err
			}
			if strings.ToLower(retry) == "n" {
				return reported(errors.New("setup aborted"))
			}
			continue
		}
		if err := app.keys.Save(key); err != nil {
			c.ShowError("Failed to save API key: " + err.Error())
			return reported(err)
		}
		c.ShowSuccess("API key saved securely")
		break
	}

	c.Println("")
	c.Println("Step 2: Default Model")
	c.Println("Available models:")
	for i, m := range constants.Models {
		c.Printf("  %d. %s\n", i+1, m)
	}
	choice, err := p.Choose("Choose model (default: 1): ", constants.Models)
	if err != nil {
		return err
	}
	if choice == "" {
		choice = "1"
	}
	model, err := gemini.ResolveModel(choice, constants.Models)
	if err != nil {
		c.ShowWarning("Invalid choice, using default")
		model = constants.DefaultModel
	} else {
		c.ShowSuccess("Model set to: " + model)
	}

	c.Println("")
	c.Println("Step 3: Streaming Responses")
	answer, err := p.Line("Enable streaming responses? (Y/n): ")
	if err != nil {
		return err
	}
	streaming := strings.ToLower(answer) != "n"

	err = app.editConfigFile(func(fc *config.Config) error {
		fc.API.Model = model
		fc.UI.Streaming = streaming
		return nil
	})
	if err != nil {
		c.ShowError("Failed to save configuration: " + err.Error())
		return reported(err)
	}
	app.cfg.API.Model = model
	app.cfg.UI.Streaming = streaming
	c.ShowSuccess("Configuration saved")

	c.ShowPanel("All Set!", "✅ Setup complete!\n\n"+
		"Try these commands:\n"+
		"  • gemini-termux chat         - Start interactive chat\n"+
		"  • gemini-termux ask \"...\"    - Quick question\n"+
		"  • gemini-termux --help       - Show all commands")
	return nil
}
