package postgresengine

import (
	"strings"

	"github.com/ckocevar-dev/rxlog/barcode"
	"github.com/ckocevar-dev/rxlog/register"
)

// Option defines a functional option for configuring a BookStore.
type Option func(*BookStore) error

// WithBooksTableName sets a custom table name for the book rows.
// An empty or whitespace-only name returns ErrEmptyTableNameSupplied.
func WithBooksTableName(tableName string) Option {
	return func(s *BookStore) error {
		if strings.TrimSpace(tableName) == "" {
			return ErrEmptyTableNameSupplied
		}

		s.booksTableName = tableName

		return nil
	}
}

// WithLedgerTableName sets a custom table name for the book/barcode ledger.
// An empty or whitespace-only name returns ErrEmptyTableNameSupplied.
func WithLedgerTableName(tableName string) Option {
	return func(s *BookStore) error {
		if strings.TrimSpace(tableName) == "" {
			return ErrEmptyTableNameSupplied
		}

		s.ledgerTableName = tableName

		return nil
	}
}

// WithBarcodeTableName sets a custom table name for the barcode stock the
// release statements run against. It must match the name the stock store
// was configured with. An empty or whitespace-only name returns
// ErrEmptyTableNameSupplied.
func WithBarcodeTableName(tableName string) Option {
	return func(s *BookStore) error {
		if strings.TrimSpace(tableName) == "" {
			return ErrEmptyTableNameSupplied
		}

		s.barcodeTableName = tableName

		return nil
	}
}

// WithReleaseNotifier sets the best-effort notifier that mirrors local
// barcode releases to the remote label authority after commit. Without
// one, releases stay local and a warning is logged per update.
func WithReleaseNotifier(notifier register.ReleaseNotifier) Option {
	return func(s *BookStore) error {
		s.releaseNotifier = notifier

		return nil
	}
}

// WithLogger enables operational logging for the BookStore.
func WithLogger(logger barcode.Logger) Option {
	return func(s *BookStore) error {
		s.logger = logger

		return nil
	}
}
