package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ckocevar-dev/rxlog/barcode/oteladapters"
)

func newRecordingCollector() (*oteladapters.TracingCollector, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), recorder
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	collector, recorder := newRecordingCollector()

	// act
	ctx, span := collector.StartSpan(context.Background(), "stockstore.reserve", map[string]string{
		"operation": "reserve",
	})
	collector.FinishSpan(span, "success", map[string]string{
		"code": "gy042",
	})

	// assert
	assert.NotNil(t, ctx)

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	recorded := ended[0]
	assert.Equal(t, "stockstore.reserve", recorded.Name())
	assert.Equal(t, codes.Ok, recorded.Status().Code)
	assert.Contains(t, recorded.Attributes(), attribute.String("operation", "reserve"))
	assert.Contains(t, recorded.Attributes(), attribute.String("code", "gy042"))
}

func Test_TracingCollector_FinishSpan_With_ErrorStatus(t *testing.T) {
	// setup
	collector, recorder := newRecordingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "stockstore.release", nil)
	collector.FinishSpan(span, "error", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func Test_TracingCollector_FinishSpan_With_NoStockStatus(t *testing.T) {
	// setup
	collector, recorder := newRecordingCollector()

	// act: no stock is a business outcome, not an infrastructure failure
	_, span := collector.StartSpan(context.Background(), "stockstore.reserve", nil)
	collector.FinishSpan(span, "no_stock", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("status", "no_stock"))
}

func Test_OTelSpanContext_AddAttribute(t *testing.T) {
	// setup
	collector, recorder := newRecordingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "stockstore.reserve", nil)
	span.AddAttribute("tier", "exact")
	collector.FinishSpan(span, "success", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String("tier", "exact"))
}
