// Package config loads the settings that pick and parameterize a history
// builder.
//
// Settings are layered: DefaultConfig, then a TOML or YAML file, then
// CTXKIT_* environment variables. The result is validated before use.
//
//	cfg, err := config.Load("ctxkit.toml")
//	builder, counter, err := cfg.NewBuilder()
//	limit := cfg.Budget().HistoryLimit(counter.CountMessages(system), 0)
//
// # Environment
//
//	CTXKIT_STRATEGY            strict | recent
//	CTXKIT_TOKENIZER           estimate | tiktoken
//	CTXKIT_MODEL               model name (encoding and window lookup)
//	CTXKIT_ENCODING            tiktoken encoding override
//	CTXKIT_CONTEXT_WINDOW      total window in tokens
//	CTXKIT_MIN_MESSAGES        newest messages the recent strategy keeps
//	CTXKIT_TRUNCATE_OVERSIZED  true to shorten an oversized newest message
//	CTXKIT_LOG_LEVEL           debug | info | warn | error
//
// Schema returns a JSON Schema for editors, and Watch reloads a file as it
// changes.
package config
