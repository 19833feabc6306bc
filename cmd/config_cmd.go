package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alex72-py/gemini-cli-termux/internal/config"
)

func (app *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.showConfig()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.setConfig(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.resetConfig()
		},
	})
	return cmd
}

// editConfigFile applies edit to the settings file without the
// environment overlay and saves it, so GEMINI_* values are never written.
func (app *App) editConfigFile(edit func(*config.Config) error) error {
	fc, err := config.LoadFile(app.paths)
	if err != nil {
		return fmt.Errorf("%w (fix the file or run 'gemini-termux config reset')", err)
	}
	if err := edit(fc); err != nil {
		return err
	}
	return fc.Save()
}

func (app *App) showConfig() {
	app.console.ShowRule("Current Configuration")
	app.console.ShowDim("Configuration file: " + app.cfg.Path())
	rows := make([][]string, 0)
	for _, e := range app.cfg.Entries() {
		rows = append(rows, []string{e[0], e[1]})
	}
	app.console.ShowTable([]string{"Key", "Value"}, rows)
}

func (app *App) setConfig(key, value string) error {
	err := app.editConfigFile(func(fc *config.Config) error {
		return fc.Set(key, value)
	})
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			app.console.ShowError(verr.Error())
			app.console.ShowInfo("Usage: config set <section.key> <value>")
			return reported(err)
		}
		return err
	}
	_ = app.cfg.Set(key, value)
	app.console.ShowSuccess(fmt.Sprintf("Set %s = %s", key, value))
	return nil
}

func (app *App) resetConfig() error {
	fc := config.Default()
	fc.SetPath(app.paths.ConfigFile())
	if err := fc.Save(); err != nil {
		return err
	}
	app.cfg.Reset()
	app.console.ShowSuccess("Configuration reset to defaults")
	return nil
}
