package history

import (
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/ctxkit/truncate"
)

// Options carries everything a Factory may need to build a Builder.
type Options struct {
	// Tokenizer counts history tokens. Required.
	Tokenizer Tokenizer

	// MinMessages is the number of newest messages that must survive.
	// Used by the recent strategy; zero allows an empty result.
	MinMessages int

	// Truncator shortens an oversized newest message. Optional; used by the
	// recent strategy.
	Truncator *truncate.Truncator
}

// Factory creates a Builder from options.
type Factory func(opts Options) (Builder, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func init() {
	Register(StrictName, func(opts Options) (Builder, error) {
		return NewStrict(opts.Tokenizer), nil
	})
	Register(RecentName, func(opts Options) (Builder, error) {
		return NewRecent(opts.Tokenizer,
			WithMinMessages(opts.MinMessages),
			WithTruncator(opts.Truncator)), nil
	})
}

// Register adds a builder factory under name.
// Panics if the name is already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("history strategy %q already registered", name))
	}
	registry[name] = factory
}

// New creates the named builder.
// Returns ErrUnknownStrategy for unregistered names and ErrNoTokenizer when
// opts has no tokenizer.
func New(name string, opts Options) (Builder, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	if opts.Tokenizer == nil {
		return nil, ErrNoTokenizer
	}
	return factory(opts)
}

// Available returns the registered names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a strategy name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, ok := registry[name]
	return ok
}

// Unregister removes a strategy. This is primarily useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, name)
}
