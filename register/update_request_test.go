package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/register"
)

func Test_UpdateRequest_ZeroValueIsEmpty(t *testing.T) {
	req := register.UpdateRequest{}

	assert.True(t, req.IsEmpty())
	assert.False(t, req.ReleasesBarcodes())

	_, ok := req.ReplacementBarcodes()
	assert.False(t, ok)
}

func Test_UpdateRequest_AbsentFieldsReportAbsent(t *testing.T) {
	req := register.UpdateRequest{}.WithPages(250)

	pages, pagesSet := req.Pages()
	assert.True(t, pagesSet)
	assert.Equal(t, 250, pages)

	_, widthSet := req.WidthMM()
	assert.False(t, widthSet)

	_, heightSet := req.HeightMM()
	assert.False(t, heightSet)

	_, topBookSet := req.TopBook()
	assert.False(t, topBookSet)

	_, statusSet := req.ReadingStatus()
	assert.False(t, statusSet)

	assert.False(t, req.IsEmpty())
}

func Test_UpdateRequest_WithMethodsDoNotMutateTheReceiver(t *testing.T) {
	base := register.UpdateRequest{}

	derived := base.WithPages(250).WithTopBook(true)

	assert.True(t, base.IsEmpty())
	assert.False(t, derived.IsEmpty())
}

func Test_UpdateRequest_ReleasesBarcodes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{name: "finished", raw: "finished", expected: true},
		{name: "abandoned", raw: "abandoned", expected: true},
		{name: "in_progress", raw: "in_progress", expected: false},
		{name: "normalized_uppercase", raw: " FINISHED ", expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := register.UpdateRequest{}.WithReadingStatus(tc.raw)

			assert.Equal(t, tc.expected, req.ReleasesBarcodes())
		})
	}
}

func Test_UpdateRequest_ReplacementBarcodes_NormalizesTheList(t *testing.T) {
	req := register.UpdateRequest{}.WithBarcodes([]string{" gy042 ", "", "om117", "gy042", "  "})

	codes, ok := req.ReplacementBarcodes()

	assert.True(t, ok)
	assert.Equal(t, []string{"gy042", "om117"}, codes)
}

func Test_UpdateRequest_ReplacementBarcodes_EmptyListStillApplies(t *testing.T) {
	// an explicitly supplied empty list unlinks everything
	req := register.UpdateRequest{}.WithBarcodes(nil)

	codes, ok := req.ReplacementBarcodes()

	assert.True(t, ok)
	assert.Empty(t, codes)
}

func Test_UpdateRequest_TerminalStatusWinsOverSuppliedBarcodeList(t *testing.T) {
	req := register.UpdateRequest{}.
		WithReadingStatus("finished").
		WithBarcodes([]string{"gy042"})

	assert.True(t, req.ReleasesBarcodes())

	codes, ok := req.ReplacementBarcodes()
	assert.False(t, ok)
	assert.Nil(t, codes)
}

func Test_UpdateRequest_NonTerminalStatusDoesNotSuppressTheBarcodeList(t *testing.T) {
	req := register.UpdateRequest{}.
		WithReadingStatus("in_progress").
		WithBarcodes([]string{"gy042"})

	assert.False(t, req.ReleasesBarcodes())

	codes, ok := req.ReplacementBarcodes()
	assert.True(t, ok)
	assert.Equal(t, []string{"gy042"}, codes)
}

func Test_UpdateRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         register.UpdateRequest
		expectedErr error
	}{
		{
			name:        "valid_scalars",
			req:         register.UpdateRequest{}.WithPages(250).WithWidthMM(130).WithHeightMM(185),
			expectedErr: nil,
		},
		{
			name:        "zero_pages",
			req:         register.UpdateRequest{}.WithPages(0),
			expectedErr: register.ErrInvalidPageCount,
		},
		{
			name:        "negative_width",
			req:         register.UpdateRequest{}.WithWidthMM(-1),
			expectedErr: register.ErrInvalidBookDimensions,
		},
		{
			name:        "zero_height",
			req:         register.UpdateRequest{}.WithHeightMM(0),
			expectedErr: register.ErrInvalidBookDimensions,
		},
		{
			name:        "invalid_status",
			req:         register.UpdateRequest{}.WithReadingStatus("reading"),
			expectedErr: register.ErrInvalidReadingStatus,
		},
		{
			name:        "empty_request",
			req:         register.UpdateRequest{},
			expectedErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()

			if tc.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}
}

func Test_NormalizeBarcodeList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil_input", input: nil, expected: []string{}},
		{name: "trims_whitespace", input: []string{" gy042 "}, expected: []string{"gy042"}},
		{name: "drops_blanks", input: []string{"", "  ", "gy042"}, expected: []string{"gy042"}},
		{
			name:     "dedupes_preserving_first_occurrence_order",
			input:    []string{"om117", "gy042", "om117 ", "gy042"},
			expected: []string{"om117", "gy042"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, register.NormalizeBarcodeList(tc.input))
		})
	}
}
