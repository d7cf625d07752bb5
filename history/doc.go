// Package history selects the conversation history that goes into an
// assembled prompt.
//
// A Builder receives the candidate history and the token limit the
// assembler calculated for it, and returns the history to use together with
// its exact token count. Two strategies are registered:
//
//   - strict: admit the whole history or fail with *ExceededError
//   - recent: keep the newest messages that fit, optionally shortening the
//     newest one when it alone is too large
//
// Builders are created by name so the strategy can come from configuration:
//
//	b, err := history.New("strict", history.Options{
//	    Tokenizer: tokens.NewMessageCounter(counter),
//	})
//	h, n, err := b.Build(conversation, limit)
//	if exceeded, ok := history.IsExceeded(err); ok {
//	    // exceeded.TokenCount, exceeded.MaxTokens
//	}
//
// # Asynchronous builds
//
// BuildAsync delivers a single Result on a channel. The strict builder has
// no asynchronous implementation and always resolves with ErrNotSupported;
// it does not fall back to Build.
package history
