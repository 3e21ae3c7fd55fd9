package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

type attributes = map[string]any

type LogEntry struct {
	Level      LogLevel
	Message    string
	Attributes attributes
	Error      error
	Timestamp  time.Time
}

type Logger interface {
	Log(ctx context.Context, entry LogEntry)
	Shutdown(ctx context.Context) error
}

var globalLogger Logger = discardLogger{}

func newLogEntry(level LogLevel, message string, err error, attrs attributes) LogEntry {
	return LogEntry{
		Level:      level,
		Message:    message,
		Attributes: attrs,
		Error:      err,
		Timestamp:  time.Now(),
	}
}

func Debug(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelDebug, message, nil, attrs))
}

func Info(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelInfo, message, nil, attrs))
}

func Warn(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelWarn, message, nil, attrs))
}

func Error(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelError, message, err, attrs))
}

func Fatal(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelFatal, message, err, attrs))
}

func Log(ctx context.Context, entry LogEntry) {
	globalLogger.Log(ctx, entry)
}

func Shutdown(ctx context.Context) error {
	return globalLogger.Shutdown(ctx)
}

// ParseLevel maps a config value such as "warn" to a LogLevel; unknown values mean info.
func ParseLevel(value string) LogLevel {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(value))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn, "WARNING":
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) rank() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelInfo:
		return 1
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	default:
		return 4
	}
}

// Enabled reports whether an entry at level passes a logger configured at min.
func (l LogLevel) Enabled(min LogLevel) bool {
	return l.rank() >= min.rank()
}

type Options struct {
	Endpoint     string
	ServiceName  string
	IsProduction bool
	Level        LogLevel
	JSON         bool
	// Output defaults to stdout; only used outside production.
	Output io.Writer
}

func Initialize(opts Options) error {
	var (
		l   Logger
		err error
	)
	if opts.Level == "" {
		opts.Level = LogLevelInfo
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.IsProduction {
		l, err = initializeOtelLogger(opts.Endpoint, opts.ServiceName, opts.Level)
	} else {
		l, err = initStdoutLogger(opts)
	}

	if err != nil {
		return err
	}

	globalLogger = l
	return nil
}

// Use swaps the global logger and returns a func restoring the previous one.
func Use(l Logger) (restore func()) {
	previous := globalLogger
	globalLogger = l
	return func() { globalLogger = previous }
}
