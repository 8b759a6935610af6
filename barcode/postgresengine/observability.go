package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ckocevar-dev/rxlog/barcode"
)

const (
	metricReserveDuration = "barcode_reserve_duration_seconds"
	metricReleaseDuration = "barcode_release_duration_seconds"
	metricNoStock         = "barcode_no_stock_total"
	metricDatabaseErrors  = "barcode_database_errors_total"

	spanNameReserve  = "stockstore.reserve"
	spanNameRelease  = "stockstore.release"
	operationReserve = "reserve"
	operationRelease = "release"

	spanAttrOperation  = "operation"
	spanAttrCode       = "code"
	spanAttrTier       = "tier"
	spanAttrTierCount  = "tier_count"
	spanAttrReleased   = "released"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"

	statusSuccess = "success"
	statusError   = "error"
	statusNoStock = "no_stock"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s StockStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s StockStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s StockStore) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s StockStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationContext records duration metrics with context if the collector supports it.
func (s StockStore) recordDurationContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := s.metricsCollector.(barcode.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordCounterContext increments a counter metric with context if the collector supports it.
func (s StockStore) recordCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(barcode.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricName, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricName, labels)
	}
}

// startReserveSpan starts a tracing span for reserve operations.
func (s StockStore) startReserveSpan(ctx context.Context, orderedTiers []barcode.Tier) (context.Context, barcode.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNameReserve, map[string]string{
		spanAttrOperation: operationReserve,
		spanAttrTier:      orderedTiers[0].String(),
		spanAttrTierCount: fmt.Sprintf("%d", len(orderedTiers)),
	})
}

// startReleaseSpan starts a tracing span for release operations.
func (s StockStore) startReleaseSpan(ctx context.Context, code barcode.CodeString) (context.Context, barcode.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNameRelease, map[string]string{
		spanAttrOperation: operationRelease,
		spanAttrCode:      code,
	})
}

// finishSpan finishes a tracing span if the tracing collector is configured.
func (s StockStore) finishSpan(span barcode.SpanContext, status string, attrs map[string]string) {
	if s.tracingCollector != nil && span != nil {
		s.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// recordReserveSuccess records metrics, span, and contextual log for a successful reservation.
func (s StockStore) recordReserveSuccess(
	ctx context.Context,
	span barcode.SpanContext,
	code barcode.CodeString,
	tier barcode.Tier,
	duration time.Duration,
) {
	s.recordDurationContext(ctx, metricReserveDuration, duration, operationReserve, statusSuccess)
	s.finishSpan(span, statusSuccess, map[string]string{
		spanAttrCode:       code,
		spanAttrTier:       tier.String(),
		spanAttrDurationMS: fmt.Sprintf("%.2f", s.toMilliseconds(duration)),
	})

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+logMsgCodeReserved, logAttrCode, code, logAttrTier, tier.String())
	}
}

// recordReserveNoStock records metrics, span, and contextual log for an exhausted reservation.
func (s StockStore) recordReserveNoStock(
	ctx context.Context,
	span barcode.SpanContext,
	firstMatchedTier barcode.Tier,
	duration time.Duration,
) {
	s.recordDurationContext(ctx, metricReserveDuration, duration, operationReserve, statusNoStock)
	s.recordCounterContext(ctx, metricNoStock, map[string]string{spanAttrTier: firstMatchedTier.String()})
	s.finishSpan(span, statusNoStock, map[string]string{spanAttrTier: firstMatchedTier.String()})

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+logMsgNoStock, logAttrTier, firstMatchedTier.String())
	}
}

// recordReserveError records metrics and span for a failed reservation.
func (s StockStore) recordReserveError(
	ctx context.Context,
	span barcode.SpanContext,
	errorType string,
	duration time.Duration,
) {
	s.recordDurationContext(ctx, metricReserveDuration, duration, operationReserve, statusError)
	s.recordCounterContext(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationReserve,
		"status":          statusError,
		spanAttrErrorType: errorType,
	})
	s.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// recordReleaseSuccess records metrics and span for a completed release.
func (s StockStore) recordReleaseSuccess(
	ctx context.Context,
	span barcode.SpanContext,
	released bool,
	duration time.Duration,
) {
	s.recordDurationContext(ctx, metricReleaseDuration, duration, operationRelease, statusSuccess)
	s.finishSpan(span, statusSuccess, map[string]string{
		spanAttrReleased:   fmt.Sprintf("%t", released),
		spanAttrDurationMS: fmt.Sprintf("%.2f", s.toMilliseconds(duration)),
	})

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+logMsgCodeReleased, logAttrReleased, released)
	}
}

// recordReleaseError records metrics and span for a failed release.
func (s StockStore) recordReleaseError(
	ctx context.Context,
	span barcode.SpanContext,
	errorType string,
	duration time.Duration,
) {
	s.recordDurationContext(ctx, metricReleaseDuration, duration, operationRelease, statusError)
	s.recordCounterContext(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationRelease,
		"status":          statusError,
		spanAttrErrorType: errorType,
	})
	s.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}
