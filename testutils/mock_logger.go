// Package testutils provides in-memory doubles for the exchange and logger
// interfaces used throughout the tests.
package testutils

import (
	"sync"

	"go.uber.org/zap"
)

// logEntry captures a single log invocation for inspection in tests.
type logEntry struct {
	level  string
	msg    string
	fields []zap.Field
}

// MockLogger implements logger.Logger but stores entries in memory.
type MockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

// NewMockLogger returns a logger that records everything.
func NewMockLogger() *MockLogger { return &MockLogger{} }

func (l *MockLogger) record(level, msg string, fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := append([]zap.Field(nil), fields...)
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: copied})
}

func (l *MockLogger) Info(msg string, fields ...zap.Field)  { l.record("info", msg, fields...) }
func (l *MockLogger) Warn(msg string, fields ...zap.Field)  { l.record("warn", msg, fields...) }
func (l *MockLogger) Error(msg string, fields ...zap.Field) { l.record("error", msg, fields...) }

// LastMessage returns the message of the most recent entry.
func (l *MockLogger) LastMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1].msg
}

// Messages returns every recorded message in order.
func (l *MockLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.msg
	}
	return out
}

// Contains reports whether any entry carries the given message.
func (l *MockLogger) Contains(msg string) bool {
	for _, m := range l.Messages() {
		if m == msg {
			return true
		}
	}
	return false
}
