package register

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidReadingStatus = errors.New("reading status must be one of: in_progress, finished, abandoned")
var ErrInvalidPageCount = errors.New("page count must be a positive number")
var ErrInvalidBookDimensions = errors.New("book width and height must be positive numbers")
var ErrBookNotFound = errors.New("book not found")

// ReadingStatus is the lifecycle state of a registered book.
type ReadingStatus string

const (
	StatusInProgress ReadingStatus = "in_progress"
	StatusFinished   ReadingStatus = "finished"
	StatusAbandoned  ReadingStatus = "abandoned"
)

// ParseReadingStatus normalizes a raw status value: surrounding
// whitespace is trimmed and the comparison is case-insensitive, the
// result is always lowercase. Invalid values return ErrInvalidReadingStatus.
func ParseReadingStatus(raw string) (ReadingStatus, error) {
	switch ReadingStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusFinished:
		return StatusFinished, nil
	case StatusAbandoned:
		return StatusAbandoned, nil
	default:
		return "", ErrInvalidReadingStatus
	}
}

// String returns the status as its persisted string representation.
func (s ReadingStatus) String() string {
	return string(s)
}

// ReleasesBarcodes reports whether a transition into this status must
// release every barcode currently linked to the book.
func (s ReadingStatus) ReleasesBarcodes() bool {
	return s == StatusFinished || s == StatusAbandoned
}

// TitleKeyword is one of up to three ordered keyword/position pairs
// describing the placement of title fragments on the book spine.
type TitleKeyword struct {
	Word     string
	Position int
}

// BookData carries the caller-supplied attributes of a book at
// registration time. Dimensions are integer millimeters; zero means
// "not measured yet".
type BookData struct {
	Author        string
	Publisher     string
	Pages         int
	TitleKeywords [3]TitleKeyword
	WidthMM       int
	HeightMM      int
	TopBook       bool
}

// Validate rejects negative scalar attributes. Zero values are allowed
// at registration time - drafts may lack pages and measurements.
func (d BookData) Validate() error {
	if d.Pages < 0 {
		return ErrInvalidPageCount
	}

	if d.WidthMM < 0 || d.HeightMM < 0 {
		return ErrInvalidBookDimensions
	}

	return nil
}

// Book is a registered book row together with its currently linked
// barcodes. Books are never physically deleted; mutation happens only
// through registration and partial updates.
type Book struct {
	ID uuid.UUID
	BookData
	ReadingStatus   ReadingStatus
	RegisteredAt    time.Time
	StatusUpdatedAt time.Time
	TopBookSetAt    *time.Time
	Barcodes        []string
}
