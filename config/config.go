package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/ctxkit/history"
	"github.com/randalmurphal/ctxkit/tokens"
	"github.com/randalmurphal/ctxkit/truncate"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CTXKIT_"

// Tokenizer kinds.
const (
	TokenizerEstimate = "estimate"
	TokenizerTiktoken = "tiktoken"
)

// ErrUnsupportedFormat indicates a config file extension with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config selects and parameterizes the history builder used during prompt
// assembly.
type Config struct {
	// Strategy names the registered history builder.
	Strategy string `json:"strategy" yaml:"strategy" toml:"strategy" env:"STRATEGY" validate:"required,strategy" jsonschema:"enum=strict,enum=recent,description=History builder strategy"`

	// Tokenizer selects how tokens are counted: "estimate" or "tiktoken".
	Tokenizer string `json:"tokenizer" yaml:"tokenizer" toml:"tokenizer" env:"TOKENIZER" validate:"required,oneof=estimate tiktoken" jsonschema:"enum=estimate,enum=tiktoken"`

	// Model picks the tiktoken encoding and the default context window.
	Model string `json:"model,omitempty" yaml:"model" toml:"model" env:"MODEL"`

	// Encoding overrides the encoding derived from Model (e.g. "o200k_base").
	Encoding string `json:"encoding,omitempty" yaml:"encoding" toml:"encoding" env:"ENCODING"`

	// CharsPerToken tunes the estimating tokenizer. 0 uses the default.
	CharsPerToken float64 `json:"chars_per_token,omitempty" yaml:"chars_per_token" toml:"chars_per_token" env:"CHARS_PER_TOKEN" validate:"gte=0"`

	// ContextWindow is the model's total token window. 0 looks it up from Model.
	ContextWindow int `json:"context_window,omitempty" yaml:"context_window" toml:"context_window" env:"CONTEXT_WINDOW" validate:"gte=0"`

	// Relative weights used to split the context window.
	SystemPercent   int `json:"system_percent" yaml:"system_percent" toml:"system_percent" env:"SYSTEM_PERCENT" validate:"gte=0,lte=100"`
	ContextPercent  int `json:"context_percent" yaml:"context_percent" toml:"context_percent" env:"CONTEXT_PERCENT" validate:"gte=0,lte=100"`
	HistoryPercent  int `json:"history_percent" yaml:"history_percent" toml:"history_percent" env:"HISTORY_PERCENT" validate:"gte=0,lte=100"`
	ReservedPercent int `json:"reserved_percent" yaml:"reserved_percent" toml:"reserved_percent" env:"RESERVED_PERCENT" validate:"gte=0,lte=100"`

	// MinMessages is how many newest messages the recent strategy must keep.
	MinMessages int `json:"min_messages" yaml:"min_messages" toml:"min_messages" env:"MIN_MESSAGES" validate:"gte=0"`

	// TruncateOversized lets the recent strategy shorten an oversized newest message.
	TruncateOversized bool `json:"truncate_oversized" yaml:"truncate_oversized" toml:"truncate_oversized" env:"TRUNCATE_OVERSIZED"`

	// TruncateStrategy picks which part of the message is cut: end, middle or start.
	TruncateStrategy string `json:"truncate_strategy,omitempty" yaml:"truncate_strategy" toml:"truncate_strategy" env:"TRUNCATE_STRATEGY" validate:"omitempty,oneof=end middle start" jsonschema:"enum=end,enum=middle,enum=start"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// DefaultConfig returns the strict builder with estimated counts and the
// default budget split.
func DefaultConfig() Config {
	return Config{
		Strategy:         history.StrictName,
		Tokenizer:        TokenizerEstimate,
		SystemPercent:    tokens.DefaultSystemPercent,
		ContextPercent:   tokens.DefaultContextPercent,
		HistoryPercent:   tokens.DefaultHistoryPercent,
		ReservedPercent:  tokens.DefaultReservedPercent,
		MinMessages:      history.DefaultMinMessages,
		TruncateStrategy: truncate.FromMiddle.String(),
		LogLevel:         "warn",
	}
}

// Load builds a Config from defaults, then the file at path (skipped when
// path is empty), then CTXKIT_* environment variables, and validates it.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load is Load with an injectable environment; nil means the process env.
func load(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeFile overlays the file's settings onto cfg.
func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			slog.Warn("ignoring unknown config keys",
				slog.String("path", path),
				slog.Any("keys", keys))
		}
		return nil

	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// NewCounter creates the text counter selected by Tokenizer.
func (c Config) NewCounter() (tokens.Counter, error) {
	switch c.Tokenizer {
	case TokenizerTiktoken:
		if c.Encoding != "" {
			return tokens.NewTiktokenCounterForEncoding(c.Encoding)
		}
		return tokens.NewTiktokenCounter(c.Model)
	case TokenizerEstimate, "":
		return tokens.NewEstimatingCounterWithRatio(c.CharsPerToken), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
}

// NewBuilder creates the configured history builder together with the
// tokenizer it counts with.
func (c Config) NewBuilder() (history.Builder, *tokens.MessageCounter, error) {
	counter, err := c.NewCounter()
	if err != nil {
		return nil, nil, err
	}
	mc := tokens.NewMessageCounter(counter)

	opts := history.Options{
		Tokenizer:   mc,
		MinMessages: c.MinMessages,
	}
	if c.TruncateOversized {
		strategy, err := truncate.ParseStrategy(c.TruncateStrategy)
		if err != nil {
			return nil, nil, err
		}
		opts.Truncator = truncate.New(strategy).WithCounter(counter)
	}

	b, err := history.New(c.Strategy, opts)
	if err != nil {
		return nil, nil, err
	}
	return b, mc, nil
}

// Window returns the context window, looked up from Model when unset.
func (c Config) Window() int {
	if c.ContextWindow > 0 {
		return c.ContextWindow
	}
	return tokens.GetModelLimit(c.Model)
}

// Budget splits the context window using the configured weights.
func (c Config) Budget() *tokens.Budget {
	return tokens.NewBudgetWithAllocation(c.Window(),
		c.SystemPercent, c.ContextPercent, c.HistoryPercent, c.ReservedPercent)
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to warn.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
