package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alex72-py/gemini-cli-termux/internal/files"
	"github.com/Alex72-py/gemini-cli-termux/internal/memory"
)

func (app *App) newChatCmd() *cobra.Command {
	var images, docs []string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runChat(cmd.Context(), append(images, docs...))
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Image file to analyze (repeatable)")
	cmd.Flags().StringArrayVarP(&docs, "file", "f", nil, "File to include (repeatable)")
	return cmd
}

// validAttachments drops unsupported or missing files, reporting each one
func (app *App) validAttachments(paths []string) []string {
	var valid []string
	for _, p := range paths {
		if err := files.Validate(p); err != nil {
			app.console.ShowError(fmt.Sprintf("Invalid or unsupported file: %s", p))
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) > 0 {
		app.console.ShowInfo(fmt.Sprintf("Loaded %d file(s)", len(valid)))
	}
	return valid
}

// openMemory returns the conversation store. With history disabled the
// store lives in memory only.
func (app *App) openMemory() *memory.Store {
	if !app.cfg.History.Enabled {
		return memory.New(app.paths.HistoryFile(), app.cfg.History.MaxEntries)
	}
	store, err := memory.Open(app.paths.HistoryFile(), app.cfg.History.MaxEntries)
	if err != nil {
		app.console.ShowWarning(err.Error())
	}
	return store
}

func (app *App) runChat(ctx context.Context, attachments []string) error {
	attachments = app.validAttachments(attachments)

	client, err := app.client(ctx)
	if err != nil {
		return err
	}

	input := newLinerReader(app.paths.PromptHistoryFile(), commandWords())
	defer input.Close()

	session := NewInteractiveSession(SessionDeps{
		Config:      app.cfg,
		Console:     app.console,
		Memory:      app.openMemory(),
		Session:     client,
		Clipboard:   app.newClipboard(),
		Input:       input,
		Models:      client.Models(),
		Attachments: attachments,
		Persist:     app.cfg.History.Enabled,
		HomeDir:     app.home,
	})
	return reported(session.Run(ctx))
}
