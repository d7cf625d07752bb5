package message

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a history file extension that has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported history format")

// Format identifies how a history is encoded on disk.
type Format string

// Supported history encodings.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads and validates a history from disk.
func LoadFile(path string) (History, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	h, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return h, nil
}

// Decode reads a history in the given format and validates it.
func Decode(r io.Reader, format Format) (History, error) {
	var (
		h   History
		err error
	)
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&h)
	case FormatJSONL:
		h, err = decodeJSONL(r)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&h)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = History{}
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// decodeJSONL parses one message per line, skipping blank lines.
func decodeJSONL(r io.Reader) (History, error) {
	h := History{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		h = append(h, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return h, nil
}
