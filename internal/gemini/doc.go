// Package gemini adapts the Gemini SDK chat API to the needs of an
// interactive terminal session.
//
// # Sessions
//
// A Client owns at most one live chat. StartSession replaces it with a new
// chat seeded from prior turns; SetModel switches models and drops the live
// chat, since the model is bound when a chat is created.
//
//	client, err := gemini.NewClient(ctx, gemini.Options{
//	    APIKey: key,
//	    Model:  "gemini-1.5-pro",
//	})
//	if err != nil {
//	    // handle error
//	}
//	_ = client.StartSession(ctx, store.ContextForAPI(memory.DefaultContextLimit))
//
// # Streaming
//
// SendMessageStream returns a single-pass Stream. Callers must Close it,
// usually with defer. Closing before the stream is drained is allowed; the
// SDK's chat history may then be ahead of, or behind, the caller's own log
// for that exchange.
//
//	stream, err := client.SendMessageStream(ctx, "hello")
//	if err != nil {
//	    // handle error
//	}
//	defer stream.Close()
//	for stream.Next() {
//	    fmt.Print(stream.Text())
//	}
//	if err := stream.Err(); err != nil {
//	    // handle error
//	}
//
// # Errors
//
// Network-touching calls return *TransientError, *AuthError or the SDK error
// unchanged. Failed attachment uploads are *UploadError values passed to the
// warning hook; the message is still sent without them. Nothing is retried
// here; WithRetry is available to callers that want it.
package gemini
