// Package ctxkit decides which conversation history goes into an assembled
// LLM prompt under a token budget.
//
// Each subpackage can be used on its own:
//
//   - message: Message/History model and history file loading
//   - tokens: token counters (estimating, tiktoken), history counting, budgets
//   - truncate: token-aware truncation of text and single messages
//   - history: history builders (strict, recent) and the strategy registry
//   - config: layered configuration that builds the selected strategy
//
// # Quick Start
//
//	counter := tokens.NewMessageCounter(tokens.NewEstimatingCounter())
//	builder := history.NewStrict(counter)
//
//	limit := tokens.NewBudget(tokens.GetModelLimit("gpt-4o")).HistoryLimit(systemTokens, contextTokens)
//	h, n, err := builder.Build(conversation, limit)
//	if exceeded, ok := history.IsExceeded(err); ok {
//	    log.Printf("history needs %d tokens, limit %d", exceeded.TokenCount, exceeded.MaxTokens)
//	}
//
// The strict builder never truncates: a history either fits as a whole or
// the call fails. Use the recent strategy to drop the oldest messages instead.
package ctxkit
