package postgresengine

import (
	"github.com/ckocevar-dev/rxlog/barcode"
)

// Option defines a functional option for configuring StockStore.
type Option func(*StockStore) error

// WithTableName sets the barcode table name for the StockStore.
func WithTableName(tableName string) Option {
	return func(s *StockStore) error {
		if tableName == "" {
			return barcode.ErrEmptyBarcodeTableName
		}

		s.barcodeTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the StockStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: reservations, releases, no-stock outcomes (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger barcode.Logger) Option {
	return func(s *StockStore) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the StockStore.
// The collector will receive reserve/release durations, outcome counters,
// and database error counters.
func WithMetrics(collector barcode.MetricsCollector) Option {
	return func(s *StockStore) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the StockStore.
// The collector will receive spans for reserve and release operations
// including tier, outcome, and error information.
func WithTracing(collector barcode.TracingCollector) Option {
	return func(s *StockStore) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the StockStore.
// The contextual logger will receive log messages with context information
// including automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger barcode.ContextualLogger) Option {
	return func(s *StockStore) error {
		s.contextualLogger = logger
		return nil
	}
}
