package interpret

import "context"

// Completer produces a chat completion for a system+user prompt pair.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}
