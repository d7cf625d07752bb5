package history

import (
	"errors"
	"fmt"
)

// Sentinel errors for history building.
var (
	// ErrHistoryExceeded indicates the history does not fit the token budget.
	ErrHistoryExceeded = errors.New("history exceeds token budget")

	// ErrNotSupported indicates the builder has no asynchronous implementation.
	ErrNotSupported = errors.New("asynchronous build not supported")

	// ErrUnknownStrategy indicates the requested builder is not registered.
	ErrUnknownStrategy = errors.New("unknown history strategy")

	// ErrNoTokenizer indicates a builder was requested without a tokenizer.
	ErrNoTokenizer = errors.New("history builder requires a tokenizer")
)

// ExceededError reports a history that needs more tokens than allowed.
type ExceededError struct {
	TokenCount int // Tokens the history requires
	MaxTokens  int // Limit calculated for the history
}

// Error implements the error interface.
func (e *ExceededError) Error() string {
	return fmt.Sprintf("history requires %d tokens, which exceeds the calculated limit for history of %d tokens",
		e.TokenCount, e.MaxTokens)
}

// Is makes errors.Is(err, ErrHistoryExceeded) match.
func (e *ExceededError) Is(target error) bool {
	return target == ErrHistoryExceeded
}

// IsExceeded extracts an ExceededError from err's chain.
func IsExceeded(err error) (*ExceededError, bool) {
	var exceeded *ExceededError
	if errors.As(err, &exceeded) {
		return exceeded, true
	}
	return nil, false
}

// IsNotSupported checks if err reports a missing asynchronous implementation.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}
