package history

import (
	"context"

	"github.com/randalmurphal/ctxkit/message"
)

// StrictName is the registry name of the strict builder.
const StrictName = "strict"

// Strict admits a history only when all of it fits. It never truncates,
// never copies and holds no state, so one value can serve concurrent callers.
type Strict struct {
	tokenizer Tokenizer
}

// NewStrict creates a strict builder over the given tokenizer.
func NewStrict(tokenizer Tokenizer) *Strict {
	return &Strict{tokenizer: tokenizer}
}

// Build returns h unchanged with its token count, or an *ExceededError when
// the count is above maxTokens. A count equal to maxTokens is admitted.
func (s *Strict) Build(h message.History, maxTokens int) (message.History, int, error) {
	count := s.tokenizer.CountMessages(h)
	if count > maxTokens {
		return nil, 0, &ExceededError{TokenCount: count, MaxTokens: maxTokens}
	}
	return h, count, nil
}

// BuildAsync always reports ErrNotSupported.
func (s *Strict) BuildAsync(_ context.Context, _ message.History, _ int) <-chan Result {
	return resolved(Result{Err: ErrNotSupported})
}
