// histcheck runs a conversation history through the configured history
// builder and reports whether it is admitted under the token budget.
//
//	histcheck --history chat.jsonl --config ctxkit.toml
//	histcheck --history chat.yaml --strategy recent --max-tokens 2000 --json
//	histcheck --schema > ctxkit.schema.json
//
// Exit status is 0 when the history is admitted, 2 when it exceeds the
// budget and 1 for any other failure.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/randalmurphal/ctxkit/config"
	"github.com/randalmurphal/ctxkit/history"
	"github.com/randalmurphal/ctxkit/message"
)

// exitExceeded is the status for a history that does not fit.
const exitExceeded = 2

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

type options struct {
	historyPath string
	configPath  string
	strategy    string
	system      string
	maxTokens   int
	jsonOutput  bool
	watch       bool
	schema      bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("histcheck", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.historyPath, "history", "", "history file (.json, .jsonl or .yaml)")
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "config file (.toml or .yaml)")
	flagSet.StringVar(&opts.strategy, "strategy", "", "override the configured history strategy")
	flagSet.StringVar(&opts.system, "system", "", "system prompt whose tokens are taken out of the history limit")
	flagSet.IntVar(&opts.maxTokens, "max-tokens", -1, "history token limit (default: computed from the context window)")
	flagSet.BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	flagSet.BoolVar(&opts.watch, "watch", false, "re-run whenever the config file changes")
	flagSet.BoolVar(&opts.schema, "schema", false, "print the config JSON Schema and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.schema {
		raw, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(raw))
		return err
	}

	if opts.historyPath == "" {
		return errors.New("--history is required")
	}
	if opts.watch && opts.configPath == "" {
		return errors.New("--watch requires --config")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	h, err := message.LoadFile(opts.historyPath)
	if err != nil {
		return err
	}

	err = check(cfg, h, opts, stdout)
	if !opts.watch {
		return err
	}

	slog.Info("watching config", "path", opts.configPath)
	err = config.Watch(ctx, opts.configPath, func(next config.Config) {
		if opts.strategy != "" {
			next.Strategy = opts.strategy
		}
		if err := check(next, h, opts, stdout); err != nil {
			slog.Warn("check failed", slog.Any("error", err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.strategy != "" {
		cfg.Strategy = opts.strategy
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// report is the machine-readable outcome of one check.
type report struct {
	Strategy  string `json:"strategy"`
	Admitted  bool   `json:"admitted"`
	Messages  int    `json:"messages"`
	Dropped   int    `json:"dropped"`
	Tokens    int    `json:"tokens"`
	MaxTokens int    `json:"max_tokens"`
	Error     string `json:"error,omitempty"`
}

func check(cfg config.Config, h message.History, opts options, stdout io.Writer) error {
	builder, counter, err := cfg.NewBuilder()
	if err != nil {
		return err
	}

	limit := opts.maxTokens
	if limit < 0 {
		systemTokens := 0
		if opts.system != "" {
			systemTokens = counter.CountMessages(message.History{message.System(opts.system)})
		}
		limit = cfg.Budget().HistoryLimit(systemTokens, 0)
	}

	slog.Debug("building history",
		"strategy", cfg.Strategy,
		"messages", len(h),
		"max_tokens", limit)

	out, count, buildErr := builder.Build(h, limit)
	r := report{
		Strategy:  cfg.Strategy,
		Admitted:  buildErr == nil,
		Messages:  len(out),
		Dropped:   len(h) - len(out),
		Tokens:    count,
		MaxTokens: limit,
	}
	if buildErr != nil {
		r.Dropped = 0
		r.Error = buildErr.Error()
		if exceeded, ok := history.IsExceeded(buildErr); ok {
			r.Tokens = exceeded.TokenCount
		}
	}

	if err := write(stdout, r, opts.jsonOutput); err != nil {
		return err
	}

	if buildErr != nil {
		if _, ok := history.IsExceeded(buildErr); ok {
			return &exitError{code: exitExceeded, err: buildErr}
		}
		return buildErr
	}
	return nil
}

func write(w io.Writer, r report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if !r.Admitted {
		_, err := fmt.Fprintf(w, "rejected (%s): %s\n", r.Strategy, r.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "admitted (%s): %d messages, %d tokens of %d", r.Strategy, r.Messages, r.Tokens, r.MaxTokens)
	if err == nil && r.Dropped > 0 {
		_, err = fmt.Fprintf(w, ", %d dropped", r.Dropped)
	}
	if err == nil {
		_, err = fmt.Fprintln(w)
	}
	return err
}
