package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry, trace level included, for assertions.
type TestLogger struct {
	*Logger
	entries *observer.ObservedLogs
}

// NewTestLogger returns a logger backed by an in-memory observer.
func NewTestLogger() *TestLogger {
	core, entries := observer.New(TraceLevel)
	return &TestLogger{
		Logger:  &Logger{zap: zap.New(core), cfg: NewDefaultConfig()},
		entries: entries,
	}
}

// All returns every recorded entry in order.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.entries.All()
}

// FilterMessage narrows to entries whose message contains msg.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.entries.FilterMessage(msg)
}

// Reset drops everything recorded so far.
func (t *TestLogger) Reset() {
	t.entries.TakeAll()
}

// AssertLogged fails tb unless an entry at level contains msgContains.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	if !t.logged(level, msgContains) {
		tb.Errorf("no entry at %v containing %q, have: %+v", level, msgContains, t.entries.All())
	}
}

// AssertNotLogged fails tb if any entry at level contains msgContains.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	if t.logged(level, msgContains) {
		tb.Errorf("unexpected entry at %v containing %q", level, msgContains)
	}
}

func (t *TestLogger) logged(level zapcore.Level, msgContains string) bool {
	for _, e := range t.entries.All() {
		if e.Level == level && strings.Contains(e.Message, msgContains) {
			return true
		}
	}
	return false
}
