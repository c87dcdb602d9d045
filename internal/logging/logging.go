// Package logging provides structured, standards-compliant logging.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging to stdout.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// RoundStart logs the start of a trade or news round for an agent.
func (l *Logger) RoundStart(kind, agentID string) {
	l.Info("round_start", map[string]interface{}{
		"kind":  kind,
		"agent": agentID,
	})
}

// RoundComplete logs the completion of a round.
func (l *Logger) RoundComplete(kind, agentID string, duration time.Duration, fellBack bool) {
	l.Info("round_complete", map[string]interface{}{
		"kind":     kind,
		"agent":    agentID,
		"duration": duration.String(),
		"fallback": fellBack,
	})
}

// CompletionCall logs a chat-completion request to a model.
func (l *Logger) CompletionCall(model string, messages int) {
	l.Debug("completion_call", map[string]interface{}{
		"model":    model,
		"messages": messages,
	})
}

// CompletionFallback logs a failed primary call that is being retried
// against the fallback model.
func (l *Logger) CompletionFallback(primary, fallback string, err error) {
	l.Warn("completion_fallback", map[string]interface{}{
		"primary":  primary,
		"fallback": fallback,
		"error":    err.Error(),
	})
}

// ValidationFallback logs when model output failed validation and a
// deterministic substitute is used instead.
func (l *Logger) ValidationFallback(kind, agentID string, err error) {
	l.Warn("validation_fallback", map[string]interface{}{
		"kind":  kind,
		"agent": agentID,
		"error": err.Error(),
	})
}

// HierarchyError logs a configuration-level registry failure. These are
// never recovered locally; they surface to the administrative layer.
func (l *Logger) HierarchyError(op, agentID string, err error) {
	l.Error("hierarchy_error", map[string]interface{}{
		"op":    op,
		"agent": agentID,
		"error": err.Error(),
	})
}
