package tokens

import "github.com/randalmurphal/ctxkit/message"

// Chat framing costs, following the OpenAI chat format accounting.
const (
	// PerMessageOverhead is charged once for every message.
	PerMessageOverhead = 3

	// PerNameOverhead is charged when a message carries a name.
	PerNameOverhead = 1

	// ReplyPriming is charged once for a non-empty history.
	ReplyPriming = 3
)

// MessageCounter counts tokens for whole messages and histories on top of a
// text Counter. It is stateless and safe for concurrent use if the wrapped
// Counter is.
type MessageCounter struct {
	counter Counter
}

// NewMessageCounter wraps a text counter. A nil counter falls back to the
// default estimating counter.
func NewMessageCounter(counter Counter) *MessageCounter {
	if counter == nil {
		counter = NewEstimatingCounter()
	}
	return &MessageCounter{counter: counter}
}

// Counter returns the wrapped text counter.
func (c *MessageCounter) Counter() Counter {
	return c.counter
}

// CountMessage returns the tokens a single message occupies, framing included.
func (c *MessageCounter) CountMessage(m message.Message) int {
	n := PerMessageOverhead + c.counter.Count(string(m.Role)) + c.counter.Count(m.Content)
	if m.Name != "" {
		n += PerNameOverhead + c.counter.Count(m.Name)
	}
	return n
}

// CountMessages returns the total tokens of a history. An empty history
// counts as zero.
func (c *MessageCounter) CountMessages(h message.History) int {
	if len(h) == 0 {
		return 0
	}
	total := ReplyPriming
	for _, m := range h {
		total += c.CountMessage(m)
	}
	return total
}
