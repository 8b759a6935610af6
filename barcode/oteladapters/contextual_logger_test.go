package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/ckocevar-dev/rxlog/barcode/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	assert.NotNil(t, logger)
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message", "code", "gy042")
	logger.InfoContext(ctx, "info message", "code", "gy042")
	logger.WarnContext(ctx, "warn message", "code", "gy042")
	logger.ErrorContext(ctx, "error message", "code", "gy042")

	// assert
	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
	assert.Contains(t, output, `"code":"gy042"`)
}

func Test_OTelLogger_DoesNotPanicWithNoopBackend(t *testing.T) {
	// setup
	provider := noop.NewLoggerProvider()
	logger := oteladapters.NewOTelLogger(provider.Logger("test"))
	ctx := context.Background()

	// act + assert: key/value pairs, including non-string values and a
	// dangling key, must be handled without panicking
	logger.DebugContext(ctx, "debug message", "code", "gy042")
	logger.InfoContext(ctx, "info message", "tier_count", 3)
	logger.WarnContext(ctx, "warn message", 42, "not-a-string-key")
	logger.ErrorContext(ctx, "error message", "dangling")
}
