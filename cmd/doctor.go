package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alex72-py/gemini-cli-termux/internal/auth"
	"github.com/Alex72-py/gemini-cli-termux/internal/constants"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

var errIssuesFound = errors.New("diagnostics found issues")

// inTermux reports whether the Termux usr prefix is set
func inTermux() bool {
	return strings.Contains(os.Getenv(constants.EnvTermuxPrefix), "com.termux")
}

func (app *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runDoctor()
		},
	}
}

func (app *App) runDoctor() error {
	c := app.console
	c.ShowPanel("", "🔍 Running Diagnostics...")

	var issues []string

	c.Println("")
	c.Println("1. API Key")
	if key, src, err := app.keys.Lookup(); err == nil {
		c.ShowSuccess("API key found (" + string(src) + ", " + auth.Mask(key) + ")")
	} else {
		c.ShowError("No API key configured")
		issues = append(issues, "Run 'gemini-termux setup' to configure API key")
	}

	c.Println("")
	c.Println("2. Configuration")
	if _, err := os.Stat(app.paths.ConfigFile()); err == nil {
		c.ShowSuccess("Config file: " + app.paths.ConfigFile())
	} else if _, err := os.Stat(app.paths.LegacyConfigFile()); err == nil {
		c.ShowSuccess("Config file: " + app.paths.LegacyConfigFile() + " (legacy)")
	} else {
		c.ShowWarning("No config file (using defaults)")
	}

	c.Println("")
	c.Println("3. Termux-API")
	if inTermux() {
		c.ShowInfo("Running inside Termux")
	}
	clip := app.newClipboard()
	if clip.HasTermuxAPI() {
		c.ShowSuccess("Termux-API available")
	} else {
		c.ShowWarning("Termux-API not installed")
		c.ShowDim(fmt.Sprintf("Clipboard fallback file: %s", clip.FallbackPath()))
		issues = append(issues, "Install with: pkg install termux-api")
	}

	c.Println("")
	c.Println("4. Directories")
	for _, d := range []struct{ name, path string }{
		{"Config", app.paths.ConfigDir},
		{"Cache", app.paths.CacheDir},
		{"Data", app.paths.DataDir},
	} {
		if _, err := os.Stat(d.path); err == nil {
			c.ShowSuccess(d.name + ": " + d.path)
		} else {
			c.ShowWarning(d.name + ": " + d.path + " (will be created)")
		}
	}

	c.Println("")
	c.Println("5. Conversation History")
	if _, err := memory.Open(app.paths.HistoryFile(), app.cfg.History.MaxEntries); err != nil {
		c.ShowError(err.Error())
		issues = append(issues, "Delete or repair "+app.paths.HistoryFile())
	} else {
		c.ShowSuccess("History file: " + app.paths.HistoryFile())
	}

	c.Println("")
	if len(issues) > 0 {
		c.ShowWarning("Issues Found:")
		for _, issue := range issues {
			c.Println("  • " + issue)
		}
		return reported(errIssuesFound)
	}
	c.ShowSuccess("All checks passed!")
	return nil
}
