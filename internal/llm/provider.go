// Package llm abstracts the hosted chat-completion service behind a
// narrow interface so the provider stays swappable and mockable.
package llm

import (
	"context"

	"github.com/caseflow/helpdesk/internal/domain"
)

// Options tune a single completion call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Stream yields completion text chunks in arrival order. Recv returns
// io.EOF when the upstream stream ends.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider generates text from conversation context.
type Provider interface {
	Complete(ctx context.Context, system string, messages []domain.ChatMessage, opts Options) (string, error)
	StreamCompletion(ctx context.Context, system string, messages []domain.ChatMessage, opts Options) (Stream, error)
}
