package ports

import "io"

//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks

// Logger is the logging surface used across the engine and adapters.
// Key/value pairs follow the log/slog convention.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, kv ...any)

	// Info logs a message at info level.
	Info(msg string, kv ...any)

	// Warn logs a message at warn level.
	Warn(msg string, kv ...any)

	// Error logs an error, rendering its cause chain when available.
	Error(err error, kv ...any)

	// SetOutput updates the logger's output destination.
	SetOutput(w io.Writer)

	// SetJSON switches between JSON and pretty logging.
	SetJSON(enable bool)
}
