// Package truncate shortens text and message content to fit token limits.
//
// Three strategies decide which part is removed:
//
//   - FromEnd: keep the beginning
//   - FromMiddle: keep the beginning and the end
//   - FromStart: keep the end
//
// FitMessage accounts for chat framing so a single message can be squeezed
// into what is left of a history budget:
//
//	tr := truncate.New(truncate.FromStart).WithCounter(counter)
//	msg, ok := tr.FitMessage(latest, remaining)
//
// All operations count runes, so multi-byte characters are never split.
package truncate
