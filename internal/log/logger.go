package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps the process-wide slog logger together with the file it writes to
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	file   *os.File
}

var globalLogger *Logger

// init creates the global logger with stderr output by default so that
// command output on stdout stays clean
func init() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	globalLogger = &Logger{
		logger: slog.New(newHandler(os.Stderr, level)),
		level:  level,
		file:   os.Stderr,
	}
}

func newHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})
}

// SetFileOutput redirects logging to the specified file, keeping the current level
func SetFileOutput(filename string) error {
	logger, err := NewLogger(filename, globalLogger.level)
	if err != nil {
		return err
	}

	Close()
	globalLogger = logger
	return nil
}

// SetOutput redirects logging to w. A previously opened log file stays
// attached so Close still releases it.
func SetOutput(w io.Writer) {
	globalLogger = &Logger{
		logger: slog.New(newHandler(w, globalLogger.level)),
		level:  globalLogger.level,
		file:   globalLogger.file,
	}
}

// Writer returns the file the global logger was configured with
func Writer() *os.File {
	return globalLogger.file
}

// NewLogger creates a logger that appends to the specified file
func NewLogger(filename string, level *slog.LevelVar) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", filename, err)
	}
	if level == nil {
		level = new(slog.LevelVar)
	}

	return &Logger{
		logger: slog.New(newHandler(file, level)),
		level:  level,
		file:   file,
	}, nil
}

// SetLevel changes the minimum level of the global logger.
// Accepts debug, info, warn and error.
func SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	globalLogger.level.Set(level)
	return nil
}

// ParseLevel converts a level name into a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Standard logging methods
func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Error(msg, args...)
	}
}

// Close closes the log file if logging was redirected to one
func Close() {
	if globalLogger != nil && globalLogger.file != nil &&
		globalLogger.file != os.Stdout && globalLogger.file != os.Stderr {
		globalLogger.file.Close()
	}
}
