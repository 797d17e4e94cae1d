package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// Level is the minimum severity that gets written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu    sync.Mutex
	out   io.Writer = color.Output
	level           = LevelInfo
)

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID retrieves request ID from context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// formatLog formats log message with optional request ID
func formatLog(level string, requestID string, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		return fmt.Sprintf("[%s] [req_id=%s] %s", level, requestID, msg)
	}
	return fmt.Sprintf("[%s] %s", level, msg)
}

func write(l Level, tag string, c *color.Color, line string) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	fmt.Fprintf(out, "%s %s\n", c.SprintFunc()(tag), line)
}

// Debug log debug detail
func Debug(format string, a ...interface{}) {
	write(LevelDebug, "[DEBUG]", color.New(color.FgCyan), fmt.Sprintf(format, a...))
}

// DebugWithContext logs debug detail with context (includes request ID if available)
func DebugWithContext(ctx context.Context, format string, a ...interface{}) {
	write(LevelDebug, "[DEBUG]", color.New(color.FgCyan), formatLog("DEBUG", RequestID(ctx), format, a...))
}

// Info log information
func Info(format string, a ...interface{}) {
	write(LevelInfo, "[INFO] ", color.New(color.FgWhite, color.BgGreen), fmt.Sprintf(format, a...))
}

// InfoWithContext logs information with context (includes request ID if available)
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	write(LevelInfo, "[INFO] ", color.New(color.FgWhite, color.BgGreen), formatLog("INFO", RequestID(ctx), format, a...))
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	write(LevelWarn, "[WARN] ", color.New(color.FgWhite, color.BgYellow), fmt.Sprintf(format, a...))
}

// WarnWithContext logs warning with context (includes request ID if available)
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	write(LevelWarn, "[WARN] ", color.New(color.FgWhite, color.BgYellow), formatLog("WARN", RequestID(ctx), format, a...))
}

// Error log error
func Error(format string, a ...interface{}) {
	write(LevelError, "[Error]", color.New(color.FgRed), fmt.Sprintf(format, a...))
}

// ErrorWithContext logs error with context (includes request ID if available)
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	write(LevelError, "[Error]", color.New(color.FgRed), formatLog("ERROR", RequestID(ctx), format, a...))
}

// InfoStruct dumps values at debug level.
func InfoStruct(a ...interface{}) {
	write(LevelDebug, "[DEBUG]", color.New(color.FgCyan), spew.Sdump(a...))
}
