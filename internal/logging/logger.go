package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l Level) String() string {
	if l < DEBUG || l > FATAL {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level name case-insensitively. "warning" is accepted
// for WARN and unknown names fall back to INFO.
func ParseLevel(level string) Level {
	name := strings.ToUpper(strings.TrimSpace(level))
	if name == "WARNING" {
		return WARN
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l)
		}
	}
	return INFO
}

// sink serializes writes so concurrent requests never interleave lines.
type sink struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(line)
}

// Logger writes leveled, structured log lines. Program output goes to
// stdout, so the logger defaults to stderr. Loggers derived with WithField
// share their parent's output.
type Logger struct {
	level      Level
	jsonFormat bool
	out        *sink
	fields     map[string]interface{}
	exit       func(int)
}

// NewLogger creates a new logger writing to stderr
func NewLogger(level Level, jsonFormat bool) *Logger {
	return &Logger{
		level:      level,
		jsonFormat: jsonFormat,
		out:        &sink{w: os.Stderr},
		exit:       os.Exit,
	}
}

// NewFileLogger creates a logger that appends to path and mirrors to stderr.
func NewFileLogger(path string, level Level, jsonFormat bool) (*Logger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logger := NewLogger(level, jsonFormat)
	logger.out = &sink{w: io.MultiWriter(file, os.Stderr), file: file}
	logger.Debug("Logger initialized", map[string]interface{}{"path": path})
	return logger, nil
}

// SetOutput redirects this logger. Loggers derived earlier keep their
// output.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = &sink{w: w}
}

// SetExitFunc replaces os.Exit for FATAL entries.
func (l *Logger) SetExitFunc(exit func(int)) {
	l.exit = exit
}

// LogEntry is one JSON log line
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) log(level Level, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	var line []byte
	if l.jsonFormat {
		line = encodeJSON(time.Now(), level, message, merged)
	} else {
		line = encodeText(time.Now(), level, message, merged)
	}
	l.out.write(line)

	if level == FATAL {
		l.exit(1)
	}
}

func encodeJSON(ts time.Time, level Level, message string, fields map[string]interface{}) []byte {
	entry := LogEntry{
		Timestamp: ts.Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	data, err := json.Marshal(entry)
	if err != nil {
		// Unencodable field values still leave a trace of the message.
		entry.Fields = map[string]interface{}{"log_error": err.Error()}
		data, _ = json.Marshal(entry)
	}
	return append(data, '\n')
}

// encodeText renders "[ts] LEVEL: message k=v ..." with sorted keys.
func encodeText(ts time.Time, level Level, message string, fields map[string]interface{}) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", ts.Format("2006-01-02 15:04:05"), level, message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DEBUG, message, first(fields))
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(INFO, message, first(fields))
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WARN, message, first(fields))
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...map[string]interface{}) {
	l.log(ERROR, message, first(fields))
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(FATAL, message, first(fields))
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// WithField returns a child logger that adds key to every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	child := *l
	child.fields = fields
	return &child
}

// Close closes the log file, if any. Later entries go to stderr only.
func (l *Logger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file == nil {
		return nil
	}
	err := l.out.file.Close()
	l.out.file = nil
	l.out.w = os.Stderr
	return err
}
