package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/register"
)

func Test_ParseReadingStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected register.ReadingStatus
	}{
		{name: "in_progress", raw: "in_progress", expected: register.StatusInProgress},
		{name: "finished", raw: "finished", expected: register.StatusFinished},
		{name: "abandoned", raw: "abandoned", expected: register.StatusAbandoned},
		{name: "uppercase", raw: "FINISHED", expected: register.StatusFinished},
		{name: "surrounding_whitespace", raw: "  abandoned \n", expected: register.StatusAbandoned},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, err := register.ParseReadingStatus(tc.raw)

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func Test_ParseReadingStatus_With_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "unknown_value", raw: "reading"},
		{name: "typo", raw: "finnished"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := register.ParseReadingStatus(tc.raw)

			assert.ErrorIs(t, err, register.ErrInvalidReadingStatus)
		})
	}
}

func Test_ReadingStatus_ReleasesBarcodes(t *testing.T) {
	assert.False(t, register.StatusInProgress.ReleasesBarcodes())
	assert.True(t, register.StatusFinished.ReleasesBarcodes())
	assert.True(t, register.StatusAbandoned.ReleasesBarcodes())
}

func Test_BookData_Validate(t *testing.T) {
	// zero values are valid drafts
	assert.NoError(t, register.BookData{}.Validate())

	assert.ErrorIs(t, register.BookData{Pages: -1}.Validate(), register.ErrInvalidPageCount)
	assert.ErrorIs(t, register.BookData{WidthMM: -1}.Validate(), register.ErrInvalidBookDimensions)
	assert.ErrorIs(t, register.BookData{HeightMM: -1}.Validate(), register.ErrInvalidBookDimensions)
}
