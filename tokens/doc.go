// Package tokens provides token counting and budget management for
// conversation histories.
//
// # Counters
//
// A Counter counts tokens in text. EstimatingCounter uses the ~4 characters
// per token rule of thumb and needs no model data; TiktokenCounter gives
// exact BPE counts for OpenAI-style encodings:
//
//	est := tokens.NewEstimatingCounter()
//	exact, err := tokens.NewTiktokenCounter("gpt-4o")
//
// # Messages
//
// MessageCounter adds chat framing on top of a Counter and counts whole
// histories. It is the tokenizer handed to history builders:
//
//	mc := tokens.NewMessageCounter(exact)
//	n := mc.CountMessages(h)
//
// Every message costs PerMessageOverhead plus its role and content tokens,
// and a non-empty history adds ReplyPriming. An empty history is zero.
//
// # Budget
//
// Budget splits a model's context window and computes how much is left for
// history once the system prompt and retrieved context are placed:
//
//	b := tokens.NewBudget(tokens.GetModelLimit("gpt-4o"))
//	limit := b.HistoryLimit(systemTokens, contextTokens)
package tokens
