package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alex72-py/gemini-cli-termux/internal/gemini"
)

func (app *App) newAskCmd() *cobra.Command {
	var images, docs []string
	var stream, paste bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return app.runAsk(ctx, strings.Join(args, " "), append(images, docs...), stream, paste)
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Image file to analyze (repeatable)")
	cmd.Flags().StringArrayVarP(&docs, "file", "f", nil, "File to include (repeatable)")
	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "Stream response")
	cmd.Flags().BoolVarP(&paste, "paste", "p", false, "Append clipboard text to the question")
	return cmd
}

func (app *App) runAsk(ctx context.Context, question string, attachments []string, stream, paste bool) error {
	if paste {
		if text, ok := app.newClipboard().Paste(); ok && strings.TrimSpace(text) != "" {
			question += "\n\n" + text
		} else {
			app.console.ShowWarning("Clipboard is empty")
		}
	}
	attachments = app.validAttachments(attachments)

	client, err := app.client(ctx)
	if err != nil {
		return err
	}

	spin := app.console.NewSpinner("Thinking...")
	spin.Start()
	prompt := client.NewPrompt(ctx, question, attachments...)
	if stream {
		spin.Stop()
		return app.askStream(ctx, client, prompt)
	}

	reply, err := gemini.WithRetry(ctx, func() (string, error) {
		return client.Generate(ctx, prompt)
	})
	spin.Stop()
	if err != nil {
		return askError(ctx, err)
	}
	app.console.ShowContentRendered(reply)
	return nil
}

func (app *App) askStream(ctx context.Context, client ChatClient, prompt gemini.Prompt) error {
	s := client.GenerateStream(ctx, prompt)
	defer s.Close()

	for s.Next() {
		app.console.WriteFragment(s.Text())
	}
	app.console.EndFragments()

	if err := s.Err(); err != nil {
		return askError(ctx, err)
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return nil
}

func askError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	return err
}
