package zerologadapter_test

import (
	"bytes"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/barcode/zerologadapter"
)

func Test_Logger_EmitsKeyValuePairsAsFields(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	// act
	logger.Info("barcode reserved", "code", "gy042", "tier", "exact")

	// assert
	var entry map[string]any
	assert.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "barcode reserved", entry["message"])
	assert.Equal(t, "gy042", entry["code"])
	assert.Equal(t, "exact", entry["tier"])
}

func Test_Logger_MapsAllLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *zerologadapter.Logger)
	}{
		{name: "debug", log: func(l *zerologadapter.Logger) { l.Debug("msg") }},
		{name: "info", log: func(l *zerologadapter.Logger) { l.Info("msg") }},
		{name: "warn", log: func(l *zerologadapter.Logger) { l.Warn("msg") }},
		{name: "error", log: func(l *zerologadapter.Logger) { l.Error("msg") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerologadapter.NewLogger(zerolog.New(&buf))

			tc.log(logger)

			var entry map[string]any
			assert.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.name, entry["level"])
		})
	}
}

func Test_Logger_AttachesATrailingKeyWithoutValue(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	// act
	logger.Info("msg", "code", "gy042", "dangling")

	// assert
	var entry map[string]any
	assert.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gy042", entry["code"])
	assert.Equal(t, "dangling", entry["extra"])
}
