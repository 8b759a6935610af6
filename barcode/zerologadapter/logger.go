// Package zerologadapter implements the barcode.Logger interface on top
// of rs/zerolog for users who already run a zerolog-based stack.
package zerologadapter

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ckocevar-dev/rxlog/barcode"
)

// Logger adapts a zerolog.Logger to the barcode.Logger interface.
// Variadic args are interpreted as alternating key/value pairs, like slog;
// a trailing key without a value is attached under the "extra" field.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger wraps the given zerolog.Logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Debug logs a debug message with optional key/value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(l.logger.Debug(), msg, args...)
}

// Info logs an info message with optional key/value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(l.logger.Info(), msg, args...)
}

// Warn logs a warning message with optional key/value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(l.logger.Warn(), msg, args...)
}

// Error logs an error message with optional key/value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(l.logger.Error(), msg, args...)
}

func (l *Logger) emit(event *zerolog.Event, msg string, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}

		event = event.Interface(key, args[i+1])
	}

	if len(args)%2 != 0 {
		event = event.Interface("extra", args[len(args)-1])
	}

	event.Msg(msg)
}

// Ensure Logger implements barcode.Logger.
var _ barcode.Logger = (*Logger)(nil)
