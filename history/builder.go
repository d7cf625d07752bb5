package history

import (
	"context"

	"github.com/randalmurphal/ctxkit/message"
)

// Tokenizer counts the tokens of a whole history. Implementations must be
// deterministic and free of observable side effects.
type Tokenizer interface {
	CountMessages(h message.History) int
}

// Result is the outcome of an asynchronous build.
type Result struct {
	History message.History
	Tokens  int
	Err     error
}

// Builder decides which part of a conversation history is handed to the
// model under a token budget.
type Builder interface {
	// Build returns the history to use and its exact token count.
	Build(h message.History, maxTokens int) (message.History, int, error)

	// BuildAsync runs the build without blocking the caller. The returned
	// channel yields exactly one Result and is then closed.
	BuildAsync(ctx context.Context, h message.History, maxTokens int) <-chan Result
}

// resolved returns a closed channel already holding r.
func resolved(r Result) <-chan Result {
	ch := make(chan Result, 1)
	ch <- r
	close(ch)
	return ch
}
