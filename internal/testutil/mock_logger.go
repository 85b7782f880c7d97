// Package testutil provides shared test doubles for JurisCompare packages.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// LogMessage is a single entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{Messages: make([]LogMessage, 0)}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(_ ...logging.Field) logging.Logger         { return m }
func (m *MockLogger) WithContext(_ context.Context) logging.Logger   { return m }
func (m *MockLogger) Named(_ string) logging.Logger                  { return m }
func (m *MockLogger) Sync() error                                    { return nil }

// GetMessages returns a copy of the recorded entries.
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]LogMessage, len(m.Messages))
	copy(result, m.Messages)
	return result
}

// Clear drops every recorded entry.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = m.Messages[:0]
}

// HasMessage reports whether an entry with exactly this level and message exists.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range m.Messages {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// HasMessageContaining reports whether an entry at level contains substr.
func (m *MockLogger) HasMessageContaining(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range m.Messages {
		if logged.Level == level && strings.Contains(logged.Message, substr) {
			return true
		}
	}
	return false
}

// CountLevel returns how many entries were recorded at level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, logged := range m.Messages {
		if logged.Level == level {
			n++
		}
	}
	return n
}

// FieldValue returns the value of key on the first entry with msg.
func (m *MockLogger) FieldValue(msg, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range m.Messages {
		if logged.Message != msg {
			continue
		}
		for _, f := range logged.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return nil, false
}

var _ logging.Logger = (*MockLogger)(nil)

//Personal.AI order the ending
