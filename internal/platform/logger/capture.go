package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

// Entry is one decoded JSON log record.
type Entry map[string]any

// Capture collects JSON log output for assertions in tests. It is safe for
// concurrent writers.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Entries decodes every captured record, failing tb on malformed output.
func (c *Capture) Entries(tb testing.TB) []Entry {
	tb.Helper()
	c.mu.Lock()
	data := append([]byte(nil), c.buf.Bytes()...)
	c.mu.Unlock()

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			tb.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

// NewTestLogger returns a debug-level JSON logger and the Capture it writes
// to. The default logger is left alone.
func NewTestLogger() (*slog.Logger, *Capture) {
	c := &Capture{}
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}
