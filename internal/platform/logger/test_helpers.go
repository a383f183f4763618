package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer is a thread-safe buffer for capturing log output in tests.
type TestLogBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write implements io.Writer for TestLogBuffer.
func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the buffer contents as a string.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset clears the buffer contents.
func (b *TestLogBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// GetLogEntries parses the buffer contents as JSON log entries.
// Each line is assumed to be a separate JSON log entry.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]interface{}, error) {
	lines := strings.Split(b.String(), "\n")
	entries := make([]map[string]interface{}, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// FindEntry returns the first entry whose "msg" equals msg.
func (b *TestLogBuffer) FindEntry(msg string) (map[string]interface{}, bool) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, false
	}
	for _, entry := range entries {
		if entry["msg"] == msg {
			return entry, true
		}
	}
	return nil, false
}

// NewTestLogger returns a debug-level JSON logger writing to a fresh buffer.
// The default logger is left untouched.
func NewTestLogger(t *testing.T) (*TestLogBuffer, *slog.Logger) {
	t.Helper()
	logBuf := &TestLogBuffer{}
	handler := slog.NewJSONHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logBuf, slog.New(handler)
}

// AssertLogContains fails the test if content does not appear in the captured output.
func AssertLogContains(t *testing.T, logBuf *TestLogBuffer, content string) {
	t.Helper()
	if !strings.Contains(logBuf.String(), content) {
		t.Errorf("Expected log to contain %q, but it didn't.\nLog content:\n%s", content, logBuf.String())
	}
}
