package truncate

import (
	"fmt"

	"github.com/randalmurphal/ctxkit/message"
	"github.com/randalmurphal/ctxkit/tokens"
)

// Strategy defines which part of the text is removed.
type Strategy int

const (
	// FromEnd removes content from the end, keeping the beginning.
	FromEnd Strategy = iota

	// FromMiddle removes content from the middle, keeping start and end.
	FromMiddle

	// FromStart removes content from the start, keeping the most recent text.
	FromStart
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case FromEnd:
		return "end"
	case FromMiddle:
		return "middle"
	case FromStart:
		return "start"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "end", "middle" or "start" to a Strategy.
// An empty name selects FromMiddle.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "end":
		return FromEnd, nil
	case "", "middle":
		return FromMiddle, nil
	case "start":
		return FromStart, nil
	default:
		return 0, fmt.Errorf("unknown truncation strategy %q", name)
	}
}

// DefaultEndSuffix marks removed trailing content.
const DefaultEndSuffix = "..."

// DefaultMiddleSuffix marks removed content in the middle.
const DefaultMiddleSuffix = "\n...[content truncated]...\n"

// DefaultStartSuffix marks removed leading content.
const DefaultStartSuffix = "..."

// Truncator shortens text and message content to fit token limits.
type Truncator struct {
	counter  tokens.Counter
	messages *tokens.MessageCounter
	strategy Strategy
	marker   string
}

// New creates a truncator with the given strategy and the default
// estimating counter.
func New(strategy Strategy) *Truncator {
	marker := DefaultEndSuffix
	switch strategy {
	case FromMiddle:
		marker = DefaultMiddleSuffix
	case FromStart:
		marker = DefaultStartSuffix
	}
	return (&Truncator{strategy: strategy, marker: marker}).WithCounter(tokens.NewEstimatingCounter())
}

// WithCounter sets the token counter used to measure text.
func (t *Truncator) WithCounter(counter tokens.Counter) *Truncator {
	t.counter = counter
	t.messages = tokens.NewMessageCounter(counter)
	return t
}

// WithMarker sets the text inserted where content was removed.
func (t *Truncator) WithMarker(marker string) *Truncator {
	t.marker = marker
	return t
}

// Strategy returns the truncator's strategy.
func (t *Truncator) Strategy() Strategy {
	return t.strategy
}

// Marker returns the text inserted where content was removed.
func (t *Truncator) Marker() string {
	return t.marker
}

// Truncate reduces text to fit within maxTokens.
// Returns the text and whether truncation occurred. The result may still
// exceed maxTokens when the limit cannot even hold the marker.
func (t *Truncator) Truncate(text string, maxTokens int) (string, bool) {
	if t.counter.FitsInLimit(text, maxTokens) {
		return text, false
	}

	runes := []rune(text)
	target := maxTokens - t.counter.Count(t.marker)
	if target <= 0 {
		return t.marker, true
	}

	switch t.strategy {
	case FromMiddle:
		return t.cutMiddle(runes, target), true
	case FromStart:
		return t.cutStart(runes, target), true
	default:
		return t.cutEnd(runes, target), true
	}
}

// FitMessage shortens m's content so the whole message, framing included,
// fits within maxTokens. Role and name are never changed. The boolean
// reports whether the returned message fits.
func (t *Truncator) FitMessage(m message.Message, maxTokens int) (message.Message, bool) {
	if t.messages.CountMessage(m) <= maxTokens {
		return m, true
	}

	frame := m
	frame.Content = ""
	room := maxTokens - t.messages.CountMessage(frame)
	if room < 0 {
		return m, false
	}

	out := m
	out.Content, _ = t.Truncate(m.Content, room)
	return out, t.messages.CountMessage(out) <= maxTokens
}
