package register

import (
	"slices"
	"strings"
)

// optionalInt is an explicit present-vs-absent wrapper for an int field.
// The zero value means "leave unchanged"; there is no way to express
// "clear this field" - absence always preserves the stored value.
type optionalInt struct {
	set   bool
	value int
}

type optionalBool struct {
	set   bool
	value bool
}

type optionalString struct {
	set   bool
	value string
}

type optionalStrings struct {
	set    bool
	values []string
}

// UpdateRequest is an immutable partial-update request for a book.
// Every With* method returns a copy; a field is applied only when its
// wrapper was explicitly set. The zero value is a valid empty request.
//
// Precedence between the barcode-affecting fields: a reading status that
// normalizes to finished or abandoned releases all linked codes and wins
// over a simultaneously supplied barcode list - the list is ignored.
type UpdateRequest struct {
	pages         optionalInt
	widthMM       optionalInt
	heightMM      optionalInt
	topBook       optionalBool
	readingStatus optionalString
	barcodes      optionalStrings
}

// WithPages returns a copy with the page count set.
func (r UpdateRequest) WithPages(pages int) UpdateRequest {
	r.pages = optionalInt{set: true, value: pages}
	return r
}

// WithWidthMM returns a copy with the width (millimeters) set.
func (r UpdateRequest) WithWidthMM(widthMM int) UpdateRequest {
	r.widthMM = optionalInt{set: true, value: widthMM}
	return r
}

// WithHeightMM returns a copy with the height (millimeters) set.
func (r UpdateRequest) WithHeightMM(heightMM int) UpdateRequest {
	r.heightMM = optionalInt{set: true, value: heightMM}
	return r
}

// WithTopBook returns a copy with the top-book flag set.
func (r UpdateRequest) WithTopBook(topBook bool) UpdateRequest {
	r.topBook = optionalBool{set: true, value: topBook}
	return r
}

// WithReadingStatus returns a copy with the raw reading status set.
// The value is validated and normalized by Validate / ReadingStatus.
func (r UpdateRequest) WithReadingStatus(rawStatus string) UpdateRequest {
	r.readingStatus = optionalString{set: true, value: rawStatus}
	return r
}

// WithBarcodes returns a copy with an explicit barcode replacement list.
// This path assumes the caller already owns the codes - no stock
// reservation is performed when it is applied.
func (r UpdateRequest) WithBarcodes(codes []string) UpdateRequest {
	r.barcodes = optionalStrings{set: true, values: slices.Clone(codes)}
	return r
}

// Pages returns the page count and whether it was supplied.
func (r UpdateRequest) Pages() (int, bool) {
	return r.pages.value, r.pages.set
}

// WidthMM returns the width and whether it was supplied.
func (r UpdateRequest) WidthMM() (int, bool) {
	return r.widthMM.value, r.widthMM.set
}

// HeightMM returns the height and whether it was supplied.
func (r UpdateRequest) HeightMM() (int, bool) {
	return r.heightMM.value, r.heightMM.set
}

// TopBook returns the top-book flag and whether it was supplied.
func (r UpdateRequest) TopBook() (bool, bool) {
	return r.topBook.value, r.topBook.set
}

// ReadingStatus returns the normalized reading status and whether a
// valid status was supplied. An invalid raw value reports absent; use
// Validate to surface it as an error.
func (r UpdateRequest) ReadingStatus() (ReadingStatus, bool) {
	if !r.readingStatus.set {
		return "", false
	}

	status, err := ParseReadingStatus(r.readingStatus.value)
	if err != nil {
		return "", false
	}

	return status, true
}

// IsEmpty reports whether the request supplies no recognized field at all.
func (r UpdateRequest) IsEmpty() bool {
	return !r.pages.set &&
		!r.widthMM.set &&
		!r.heightMM.set &&
		!r.topBook.set &&
		!r.readingStatus.set &&
		!r.barcodes.set
}

// ReleasesBarcodes reports whether applying this request must release
// every code currently linked to the book (reading status present and
// normalizing to finished or abandoned).
func (r UpdateRequest) ReleasesBarcodes() bool {
	status, ok := r.ReadingStatus()
	return ok && status.ReleasesBarcodes()
}

// ReplacementBarcodes returns the normalized explicit replacement list
// and whether it applies. It never applies when the release branch wins:
// a request that simultaneously sets a terminal status and supplies a
// list has its list ignored.
func (r UpdateRequest) ReplacementBarcodes() ([]string, bool) {
	if !r.barcodes.set || r.ReleasesBarcodes() {
		return nil, false
	}

	return NormalizeBarcodeList(r.barcodes.values), true
}

// Validate checks every supplied field: pages, width, and height must be
// positive, the reading status must be one of the three known values.
// It performs no mutation and must pass before the request is applied.
func (r UpdateRequest) Validate() error {
	if r.pages.set && r.pages.value <= 0 {
		return ErrInvalidPageCount
	}

	if r.widthMM.set && r.widthMM.value <= 0 {
		return ErrInvalidBookDimensions
	}

	if r.heightMM.set && r.heightMM.value <= 0 {
		return ErrInvalidBookDimensions
	}

	if r.readingStatus.set {
		if _, err := ParseReadingStatus(r.readingStatus.value); err != nil {
			return err
		}
	}

	return nil
}

// NormalizeBarcodeList trims every entry, drops blanks, and removes
// duplicates while preserving the caller-supplied order of first
// occurrence.
func NormalizeBarcodeList(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))

	for _, code := range codes {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}

		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	return normalized
}
