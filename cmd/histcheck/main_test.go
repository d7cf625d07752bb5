package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ctxkit/history"
)

// Estimated counts: 104 + 6 + 5 message tokens plus 3 for priming.
func writeHistory(t *testing.T) string {
	t.Helper()
	content := `[
  {"role": "user", "content": "` + strings.Repeat("x", 400) + `"},
  {"role": "assistant", "content": "ok"},
  {"role": "user", "content": "next"}
]`
	path := filepath.Join(t.TempDir(), "chat.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Admitted(t *testing.T) {
	out, err := runCLI(t, "--history", writeHistory(t), "--max-tokens", "1000")
	require.NoError(t, err)
	assert.Equal(t, "admitted (strict): 3 messages, 118 tokens of 1000\n", out)
}

func TestRun_Exceeded(t *testing.T) {
	out, err := runCLI(t, "--history", writeHistory(t), "--max-tokens", "20")
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrHistoryExceeded))

	var coder interface{ ExitCode() int }
	require.True(t, errors.As(err, &coder))
	assert.Equal(t, exitExceeded, coder.ExitCode())
	assert.Contains(t, out, "rejected (strict): history requires 118 tokens")
}

func TestRun_RecentJSON(t *testing.T) {
	out, err := runCLI(t, "--history", writeHistory(t), "--strategy", "recent", "--max-tokens", "20", "--json")
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, report{
		Strategy:  "recent",
		Admitted:  true,
		Messages:  2,
		Dropped:   1,
		Tokens:    14,
		MaxTokens: 20,
	}, r)
}

func TestRun_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ctxkit.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("strategy = \"recent\"\ncontext_window = 30\n"), 0o600))

	// 30 window, 10% reserved: history limit is 27.
	out, err := runCLI(t, "--history", writeHistory(t), "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "admitted (recent): 2 messages, 14 tokens of 27, 1 dropped\n", out)
}

func TestRun_Schema(t *testing.T) {
	out, err := runCLI(t, "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"strategy"`)
}

func TestRun_UsageErrors(t *testing.T) {
	_, err := runCLI(t)
	assert.EqualError(t, err, "--history is required")

	_, err = runCLI(t, "--history", "chat.json", "--watch")
	assert.EqualError(t, err, "--watch requires --config")

	_, err = runCLI(t, "--history", writeHistory(t), "--strategy", "bogus")
	assert.Error(t, err)

	_, err = runCLI(t, "--no-such-flag")
	assert.Error(t, err)
}
