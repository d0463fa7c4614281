package ports

import (
	"context"
)

// ChatClient abstracts a chat-style text generator (OpenAI-compatible).
// Implementations are synchronous and blocking; the generation pipeline
// treats any failure as "use the fallback", so no retries happen here.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
