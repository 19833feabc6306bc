// Package cmd implements the gemini-termux commands.
//
// # Architecture
//
// ## Core CLI
//
//   - root.go: App struct, cobra command setup, shared flags and exit codes
//   - setup.go: First-run wizard (API key, default model, streaming)
//   - ask.go: One-shot questions, optionally streamed or with attachments
//   - config_cmd.go: config show, set and reset
//   - doctor.go: Installation diagnostics
//
// ## Interactive Mode
//
//   - chat.go: Builds an InteractiveSession from configuration
//   - interactive.go: The session loop and its states
//   - slash_commands.go: Command parsing and dispatch (/model, /save, ...)
//   - input.go: Line editing with persistent prompt history
//
// # Key Components
//
// ## InteractiveSession
//
// Owns one chat for its lifetime:
//   - Bounded conversation memory, saved after every reply
//   - The remote Gemini session, seeded from memory on start
//   - Streaming or spinner-and-markdown rendering
//   - Ctrl+C cancels the in-flight reply without leaving the chat
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
