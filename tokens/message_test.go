package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/ctxkit/message"
)

var (
	_ Counter = (*EstimatingCounter)(nil)
	_ Counter = (*TiktokenCounter)(nil)
)

// fixedCounter charges one token per byte, which keeps expectations exact.
type fixedCounter struct{}

func (fixedCounter) Count(text string) int { return len(text) }

func (f fixedCounter) FitsInLimit(text string, limit int) bool { return f.Count(text) <= limit }

func TestNewMessageCounter_NilUsesEstimator(t *testing.T) {
	mc := NewMessageCounter(nil)
	assert.IsType(t, &EstimatingCounter{}, mc.Counter())
}

func TestMessageCounter_CountMessage(t *testing.T) {
	mc := NewMessageCounter(fixedCounter{})

	tests := []struct {
		name     string
		msg      message.Message
		expected int
	}{
		{
			name:     "user message",
			msg:      message.User("hello"),
			expected: PerMessageOverhead + len("user") + len("hello"),
		},
		{
			name:     "empty content",
			msg:      message.Assistant(""),
			expected: PerMessageOverhead + len("assistant"),
		},
		{
			name:     "named tool result",
			msg:      message.Message{Role: message.RoleTool, Content: "42", Name: "calc"},
			expected: PerMessageOverhead + len("tool") + len("42") + PerNameOverhead + len("calc"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mc.CountMessage(tt.msg))
		})
	}
}

func TestMessageCounter_CountMessages(t *testing.T) {
	mc := NewMessageCounter(fixedCounter{})

	assert.Equal(t, 0, mc.CountMessages(nil))
	assert.Equal(t, 0, mc.CountMessages(message.History{}))

	h := message.History{message.User("hi"), message.Assistant("hey")}
	expected := ReplyPriming + mc.CountMessage(h[0]) + mc.CountMessage(h[1])
	assert.Equal(t, expected, mc.CountMessages(h))
}

func TestMessageCounter_Deterministic(t *testing.T) {
	mc := NewMessageCounter(NewEstimatingCounter())
	h := message.History{
		message.System("You answer questions about the knowledge base."),
		message.User("What does the retention policy say?"),
	}

	first := mc.CountMessages(h)
	for range 10 {
		assert.Equal(t, first, mc.CountMessages(h))
	}
}
