package truncate

import (
	"strings"
	"testing"

	"github.com/randalmurphal/ctxkit/message"
	"github.com/randalmurphal/ctxkit/tokens"
)

// byteCounter charges one token per byte so expected cuts are exact.
type byteCounter struct{}

func (byteCounter) Count(text string) int { return len(text) }

func (b byteCounter) FitsInLimit(text string, limit int) bool { return b.Count(text) <= limit }

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		strategy       Strategy
		expectedMarker string
	}{
		{name: "FromEnd strategy", strategy: FromEnd, expectedMarker: DefaultEndSuffix},
		{name: "FromMiddle strategy", strategy: FromMiddle, expectedMarker: DefaultMiddleSuffix},
		{name: "FromStart strategy", strategy: FromStart, expectedMarker: DefaultStartSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.strategy)
			if tr.Strategy() != tt.strategy {
				t.Errorf("Strategy() = %v, expected %v", tr.Strategy(), tt.strategy)
			}
			if tr.Marker() != tt.expectedMarker {
				t.Errorf("Marker() = %q, expected %q", tr.Marker(), tt.expectedMarker)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		expected Strategy
		wantErr  bool
	}{
		{name: "end", expected: FromEnd},
		{name: "middle", expected: FromMiddle},
		{name: "start", expected: FromStart},
		{name: "", expected: FromMiddle},
		{name: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseStrategy(%q) = %v, expected %v", tt.name, got, tt.expected)
			}
			if tt.name != "" && got.String() != tt.name {
				t.Errorf("String() = %q, expected %q", got.String(), tt.name)
			}
		})
	}
}

func TestTruncator_Truncate(t *testing.T) {
	text := "abcdefghij"

	tests := []struct {
		name      string
		tr        *Truncator
		maxTokens int
		expected  string
		truncated bool
	}{
		{
			name:      "fits unchanged",
			tr:        New(FromEnd).WithCounter(byteCounter{}),
			maxTokens: 10,
			expected:  text,
			truncated: false,
		},
		{
			name:      "from end keeps beginning",
			tr:        New(FromEnd).WithCounter(byteCounter{}),
			maxTokens: 7,
			expected:  "abcd...",
			truncated: true,
		},
		{
			name:      "from start keeps end",
			tr:        New(FromStart).WithCounter(byteCounter{}),
			maxTokens: 7,
			expected:  "...ghij",
			truncated: true,
		},
		{
			name:      "from middle keeps both ends",
			tr:        New(FromMiddle).WithCounter(byteCounter{}).WithMarker("~"),
			maxTokens: 7,
			expected:  "abc~hij",
			truncated: true,
		},
		{
			name:      "limit smaller than marker",
			tr:        New(FromEnd).WithCounter(byteCounter{}),
			maxTokens: 2,
			expected:  "...",
			truncated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := tt.tr.Truncate(text, tt.maxTokens)
			if got != tt.expected {
				t.Errorf("Truncate() = %q, expected %q", got, tt.expected)
			}
			if truncated != tt.truncated {
				t.Errorf("truncated = %v, expected %v", truncated, tt.truncated)
			}
		})
	}
}

func TestTruncator_Truncate_Unicode(t *testing.T) {
	tr := New(FromEnd)
	text := strings.Repeat("日本語テキスト", 50)

	got, truncated := tr.Truncate(text, 20)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if !strings.HasSuffix(got, DefaultEndSuffix) {
		t.Errorf("expected %q suffix, got %q", DefaultEndSuffix, got)
	}
	if !tokens.NewEstimatingCounter().FitsInLimit(got, 20) {
		t.Errorf("result %q exceeds 20 tokens", got)
	}
}

func TestTruncator_FitMessage(t *testing.T) {
	tr := New(FromEnd).WithCounter(byteCounter{})
	msg := message.User("abcdefghij") // 3 + 4 + 10 = 17

	t.Run("already fits", func(t *testing.T) {
		got, ok := tr.FitMessage(msg, 17)
		if !ok || got != msg {
			t.Errorf("FitMessage() = %+v, %v; expected unchanged message", got, ok)
		}
	})

	t.Run("content shortened", func(t *testing.T) {
		got, ok := tr.FitMessage(msg, 14)
		if !ok {
			t.Fatal("expected message to fit")
		}
		if got.Content != "abcd..." {
			t.Errorf("Content = %q, expected %q", got.Content, "abcd...")
		}
		if got.Role != message.RoleUser {
			t.Errorf("Role = %q, expected user", got.Role)
		}
		if msg.Content != "abcdefghij" {
			t.Error("input message was modified")
		}
	})

	t.Run("framing alone exceeds limit", func(t *testing.T) {
		got, ok := tr.FitMessage(msg, 6)
		if ok {
			t.Fatal("expected message not to fit")
		}
		if got != msg {
			t.Errorf("expected original message back, got %+v", got)
		}
	})
}
