// Package testutil provides test utilities for structured logging.
package testutil

import (
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a debug logger that writes to t.Log, so logs only
// show for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	logger, _ := NewRecordingLogger(t)
	return logger
}

// NewRecordingLogger is NewTestLogger that also keeps every line for
// assertions.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *Logs) {
	t.Helper()
	logs := &Logs{t: t}
	return slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})), logs
}

// Logs holds the lines written by a recording logger.
type Logs struct {
	t     testing.TB
	mu    sync.Mutex
	lines []string
}

func (l *Logs) Write(p []byte) (int, error) {
	l.t.Helper()
	line := strings.TrimRight(string(p), "\n")
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
	l.t.Log(line)
	return len(p), nil
}

// Lines returns a copy of the recorded lines.
func (l *Logs) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Contains reports whether any line contains every given substring.
func (l *Logs) Contains(parts ...string) bool {
	for _, line := range l.Lines() {
		ok := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
