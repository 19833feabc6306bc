package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alex72-py/gemini-cli-termux/internal/auth"
	"github.com/Alex72-py/gemini-cli-termux/internal/clipboard"
	"github.com/Alex72-py/gemini-cli-termux/internal/config"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/display"
	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
	"github.com/Alex72-py/gemini-cli-termux/internal/logging"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ChatClient is the remote capability the commands need
type ChatClient interface {
	gemini.Session
	NewPrompt(ctx context.Context, text string, attachments ...string) gemini.Prompt
	Generate(ctx context.Context, p gemini.Prompt) (string, error)
	GenerateStream(ctx context.Context, p gemini.Prompt) *gemini.Stream
	Models() []string
	SetWarningHandler(fn func(error))
}

var _ ChatClient = (*gemini.Client)(nil)

// reportedError marks an error already shown to the user
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// App holds the application state shared by all commands
type App struct {
	paths   config.Paths
	cfg     *config.Config
	keys    *auth.Store
	console *display.Console
	debug   bool

	stdin  io.Reader
	stdout io.Writer
	home   string

	// connect builds the remote client; tests replace it
	connect func(ctx context.Context, apiKey string) (ChatClient, error)
	// newClipboard builds the clipboard; tests replace it
	newClipboard func() *clipboard.Clipboard
	// newPrompter builds the setup wizard input; tests replace it
	newPrompter func() Prompter
}

// NewApp creates a new App using the user's home directory
func NewApp() *App {
	app := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	app.connect = app.connectGemini
	app.newClipboard = func() *clipboard.Clipboard {
		return clipboard.New(clipboard.Options{UseTermuxAPI: app.cfg.Clipboard.UseTermuxAPI})
	}
	app.newPrompter = func() Prompter {
		return newTerminalPrompter(app.stdin, app.stdout)
	}
	return app
}

// Execute runs the root command and exits with its status code
func Execute() {
	os.Exit(NewApp().Run(os.Args[1:]))
}

// Run executes args and returns the process exit code
func (app *App) Run(args []string) int {
	root := app.rootCommand()
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		var rerr reportedError
		if !errors.As(err, &rerr) {
			console := app.console
			if console == nil {
				console = display.New(display.Options{Out: app.stdout})
			}
			console.ShowError(err.Error())
		}
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

func (app *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Native Gemini AI CLI for Termux",
		Long: `gemini-termux is an interactive command-line client for Google's Gemini API.

Examples:
  gemini-termux setup                    # Run initial setup
  gemini-termux chat                     # Start interactive chat
  gemini-termux ask "What is Termux?"    # Quick question
  gemini-termux chat --image photo.jpg   # Chat with image`,
		Version:       constants.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare()
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stdout)
	root.SetIn(app.stdin)

	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug logging to stderr")

	root.AddCommand(app.newSetupCmd())
	root.AddCommand(app.newChatCmd())
	root.AddCommand(app.newAskCmd())
	root.AddCommand(app.newConfigCmd())
	root.AddCommand(app.newDoctorCmd())
	return root
}

// prepare loads paths, configuration and the console
func (app *App) prepare() error {
	if app.debug {
		logging.SetOutput(os.Stderr)
		logging.SetLevel(logging.LevelDebug)
	}

	if app.paths.ConfigDir == "" {
		if app.home == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			app.home = home
		}
		app.paths = config.PathsUnder(app.home)
	}
	if err := app.paths.Ensure(); err != nil {
		logging.Warn("Could not create application directories", logging.Fields{"error": err.Error()})
	}

	cfg, err := config.Load(app.paths)
	app.cfg = cfg
	app.console = display.New(display.Options{
		Out:                app.stdout,
		Theme:              cfg.UI.Theme,
		SyntaxHighlighting: cfg.UI.SyntaxHighlighting,
	})
	display.SetDefault(app.console)
	if err != nil {
		logging.Warn("Config load failed, using defaults", logging.Fields{"error": err.Error()})
		app.console.ShowWarning(err.Error())
	}

	app.keys = auth.NewStore(app.paths.APIKeyFile())
	logging.Debug("Initialized", logging.Fields{
		"config": app.cfg.Path(),
		"model":  app.cfg.API.Model,
	})
	return nil
}

// apiKey returns the configured key or reports how to set one
func (app *App) apiKey() (string, error) {
	key, err := app.keys.Load()
	if err != nil {
		app.console.ShowError("API key not configured")
		app.console.ShowInfo("Run 'gemini-termux setup' to get started")
		return "", reported(err)
	}
	return key, nil
}

// client connects to Gemini with the configured key
func (app *App) client(ctx context.Context) (ChatClient, error) {
	key, err := app.apiKey()
	if err != nil {
		return nil, err
	}
	c, err := app.connect(ctx, key)
	if err != nil {
		app.console.ShowError("Failed to initialize client: " + err.Error())
		return nil, reported(err)
	}
	c.SetWarningHandler(func(err error) { app.console.ShowWarning(err.Error()) })
	return c, nil
}

func (app *App) connectGemini(ctx context.Context, apiKey string) (ChatClient, error) {
	httpClient := gemini.NewHTTPClient(app.cfg.Timeout())
	if app.debug {
		httpClient = logging.NewDebugHTTPClient(logging.DefaultLogger, httpClient)
	}
	return gemini.NewClient(ctx, gemini.Options{
		APIKey: apiKey,
		Model:  app.cfg.API.Model,
		Generation: gemini.GenerationParams{
			Temperature:     float32(app.cfg.Generation.Temperature),
			TopP:            float32(app.cfg.Generation.TopP),
			TopK:            app.cfg.Generation.TopK,
			MaxOutputTokens: app.cfg.Generation.MaxOutputTokens,
		},
		HTTPClient: httpClient,
	})
}
