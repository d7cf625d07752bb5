package tokens

import (
	"fmt"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when a model has no known tiktoken encoding.
const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts exact BPE tokens using tiktoken encodings.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTiktokenCounter resolves the encoding for model. Unknown models fall
// back to DefaultEncoding.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return &TiktokenCounter{encoding: encoding, name: model}, nil
	}

	slog.Warn("no tiktoken encoding for model, using default",
		slog.String("model", model),
		slog.String("encoding", DefaultEncoding),
		slog.Any("error", err))
	return NewTiktokenCounterForEncoding(DefaultEncoding)
}

// NewTiktokenCounterForEncoding loads a named encoding such as "cl100k_base"
// or "o200k_base".
func NewTiktokenCounterForEncoding(name string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", name, err)
	}
	return &TiktokenCounter{encoding: encoding, name: name}, nil
}

// Name returns the model or encoding name the counter was built from.
func (c *TiktokenCounter) Name() string {
	return c.name
}

// Count returns the exact number of tokens in text. Special tokens are
// treated as plain text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *TiktokenCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}
