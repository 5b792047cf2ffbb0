package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Options selects level, format and destination of a logger.
// Empty fields take the defaults: INFO, text, stdout.
type Options struct {
	Level  string
	Format string
	Output string
}

// DefaultLogger creates a logger using slog.Default()
func DefaultLogger() *Logger {
	return &Logger{
		Logger: slog.Default(),
	}
}

// NewLogger creates a configured logger based on environment variables:
// - CIFCHECK_LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
// - CIFCHECK_LOG_FORMAT: json or text (default: text)
// - CIFCHECK_LOG_OUTPUT: stdout, stderr, or file path (default: stdout)
func NewLogger() *Logger {
	return New(Options{
		Level:  os.Getenv("CIFCHECK_LOG_LEVEL"),
		Format: os.Getenv("CIFCHECK_LOG_FORMAT"),
		Output: os.Getenv("CIFCHECK_LOG_OUTPUT"),
	})
}

// New creates a logger from explicit options.
func New(opts Options) *Logger {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "text"
	}
	output := opts.Output
	if output == "" {
		output = "stdout"
	}

	var writer io.Writer
	var closer io.Closer
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stdout if file can't be opened
			writer = os.Stdout
		} else {
			writer = file
			closer = file
		}
	}

	return &Logger{
		Logger: slog.New(newHandler(writer, format, parseLogLevel(opts.Level))),
		closer: closer,
	}
}

// NewWithWriter creates a logger writing to w; used by tests and embedders.
func NewWithWriter(w io.Writer, opts Options) *Logger {
	return &Logger{
		Logger: slog.New(newHandler(w, strings.ToLower(opts.Format), parseLogLevel(opts.Level))),
	}
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}
	if format == "json" {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

// parseLogLevel parses log level from string
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SLog exposes the underlying slog.Logger for middleware that needs it.
func (l *Logger) SLog() *slog.Logger {
	return l.Logger
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// SetDefaultLogger sets the logger as the default slog logger
func SetDefaultLogger(l *Logger) {
	slog.SetDefault(l.Logger)
}
