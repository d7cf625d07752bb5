package history

import (
	"context"

	"github.com/randalmurphal/ctxkit/message"
	"github.com/randalmurphal/ctxkit/truncate"
)

// RecentName is the registry name of the recent-messages builder.
const RecentName = "recent"

// DefaultMinMessages is how many of the newest messages Recent must keep.
const DefaultMinMessages = 1

// maxFitAttempts bounds the shrink loop when squeezing an oversized message.
const maxFitAttempts = 8

// Recent keeps the newest messages that fit the budget and drops the rest.
type Recent struct {
	tokenizer   Tokenizer
	minMessages int
	truncator   *truncate.Truncator
}

// RecentOption configures a Recent builder.
type RecentOption func(*Recent)

// WithMinMessages sets how many of the newest messages must survive.
// Negative values are treated as zero.
func WithMinMessages(n int) RecentOption {
	return func(r *Recent) {
		if n < 0 {
			n = 0
		}
		r.minMessages = n
	}
}

// WithTruncator lets Recent shorten the newest message when it alone
// exceeds the budget. Without one, such a history is rejected.
func WithTruncator(tr *truncate.Truncator) RecentOption {
	return func(r *Recent) {
		r.truncator = tr
	}
}

// NewRecent creates a recent-messages builder.
func NewRecent(tokenizer Tokenizer, opts ...RecentOption) *Recent {
	r := &Recent{
		tokenizer:   tokenizer,
		minMessages: DefaultMinMessages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MinMessages returns the configured minimum.
func (r *Recent) MinMessages() int {
	return r.minMessages
}

// Build returns the longest suffix of h that fits maxTokens, in chronological
// order, as a new slice. The input is never modified.
func (r *Recent) Build(h message.History, maxTokens int) (message.History, int, error) {
	start := r.fitStart(h, maxTokens)
	kept := h[start:]

	required := min(r.minMessages, len(h))
	if len(kept) >= required {
		out := kept.Clone()
		if out == nil {
			out = message.History{}
		}
		return out, r.tokenizer.CountMessages(out), nil
	}

	if len(kept) == 0 && required == 1 && r.truncator != nil {
		if msg, count, ok := r.squeeze(h[len(h)-1], maxTokens); ok {
			return message.History{msg}, count, nil
		}
	}

	return nil, 0, &ExceededError{
		TokenCount: r.tokenizer.CountMessages(h.Last(required)),
		MaxTokens:  maxTokens,
	}
}

// BuildAsync runs Build on its own goroutine. Cancelling ctx resolves the
// channel with ctx.Err() without waiting for the build.
func (r *Recent) BuildAsync(ctx context.Context, h message.History, maxTokens int) <-chan Result {
	if err := ctx.Err(); err != nil {
		return resolved(Result{Err: err})
	}

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)

		done := make(chan Result, 1)
		go func() {
			out, count, err := r.Build(h, maxTokens)
			done <- Result{History: out, Tokens: count, Err: err}
		}()

		select {
		case <-ctx.Done():
			ch <- Result{Err: ctx.Err()}
		case res := <-done:
			ch <- res
		}
	}()
	return ch
}

// fitStart finds the smallest index whose suffix fits maxTokens.
// Suffix counts grow as the start index moves back, so a binary search
// needs only O(log n) tokenizer calls.
func (r *Recent) fitStart(h message.History, maxTokens int) int {
	low, high := 0, len(h)
	for low < high {
		mid := (low + high) / 2
		if r.tokenizer.CountMessages(h[mid:]) <= maxTokens {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}

// squeeze shortens m until the tokenizer accepts it as a one-message history.
// The truncator measures with its own counter, so the limit handed to it is
// lowered by whatever the tokenizer still reports as overflow.
func (r *Recent) squeeze(m message.Message, maxTokens int) (message.Message, int, bool) {
	limit := maxTokens
	for range maxFitAttempts {
		candidate, ok := r.truncator.FitMessage(m, limit)
		if !ok {
			return m, 0, false
		}
		count := r.tokenizer.CountMessages(message.History{candidate})
		if count <= maxTokens {
			return candidate, count, true
		}
		limit -= count - maxTokens
	}
	return m, 0, false
}
