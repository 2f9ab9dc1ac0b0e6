package logging

import "sync"

// MockLogger records log calls for assertions in tests. Loggers derived
// with WithField/WithFields/WithError record into the root mock's entry
// list, so assertions on the injected logger see field-carrying logs too.
type MockLogger struct {
	mu      sync.Mutex
	Entries []MockEntry
	root    *MockLogger
	fields  []Field
	err     error
}

// MockEntry is a single recorded log call.
type MockEntry struct {
	Level   string
	Message string
	Fields  []Field
	Err     error
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// sink returns the mock that owns the entry list.
func (m *MockLogger) sink() *MockLogger {
	if m.root != nil {
		return m.root
	}
	return m
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	s := m.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append(append([]Field{}, m.fields...), fields...)
	s.Entries = append(s.Entries, MockEntry{
		Level:   level,
		Message: msg,
		Fields:  all,
		Err:     m.err,
	})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{root: m.sink(), fields: m.fields, err: err}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{
		root:   m.sink(),
		fields: append(append([]Field{}, m.fields...), fields...),
		err:    m.err,
	}
}

// HasMessage reports whether any recorded entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	s := m.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.Entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
