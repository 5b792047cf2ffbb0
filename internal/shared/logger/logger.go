package logger

// Logger is the logging surface used by application services, so they do
// not depend on the slog-backed implementation in infrastructure.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
