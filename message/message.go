package message

import (
	"errors"
	"fmt"
)

// ErrInvalidRole indicates a message carries a role outside the standard set.
var ErrInvalidRole = errors.New("invalid message role")

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the standard roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message is one conversation turn.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"` // For tool results
}

// New creates a message with the given role and content.
func New(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// User creates a user message.
func User(content string) Message { return New(RoleUser, content) }

// Assistant creates an assistant message.
func Assistant(content string) Message { return New(RoleAssistant, content) }

// System creates a system message.
func System(content string) Message { return New(RoleSystem, content) }

// Validate checks that the message has a known role.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	return nil
}

// History is a chronologically ordered conversation.
type History []Message

// Clone returns a copy that shares no backing array with h.
// A nil history clones to nil.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Equal reports whether both histories hold the same messages in the same order.
func (h History) Equal(other History) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate checks every message, reporting the index of the first bad one.
func (h History) Validate() error {
	for i, m := range h {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// Last returns the n most recent messages. It returns h itself when n >= len(h).
func (h History) Last(n int) History {
	if n <= 0 {
		return History{}
	}
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}
