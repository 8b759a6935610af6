// Package test provides shared helpers for the integration tests:
// schema setup, cleanup, and data-arrangement functions.
package test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/barcode"
)

const createBarcodesTableDDL = `
CREATE TABLE IF NOT EXISTS barcodes (
	code         TEXT PRIMARY KEY,
	tier         TEXT NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE
)`

const createBooksTableDDL = `
CREATE TABLE IF NOT EXISTS books (
	id                        UUID PRIMARY KEY,
	author                    TEXT NOT NULL DEFAULT '',
	publisher                 TEXT NOT NULL DEFAULT '',
	pages                     INTEGER NOT NULL DEFAULT 0,
	title_keyword             TEXT NOT NULL DEFAULT '',
	title_keyword_position    INTEGER NOT NULL DEFAULT 0,
	title_keyword2            TEXT NOT NULL DEFAULT '',
	title_keyword2_position   INTEGER NOT NULL DEFAULT 0,
	title_keyword3            TEXT NOT NULL DEFAULT '',
	title_keyword3_position   INTEGER NOT NULL DEFAULT 0,
	width                     INTEGER NOT NULL DEFAULT 0,
	height                    INTEGER NOT NULL DEFAULT 0,
	reading_status            TEXT NOT NULL,
	top_book                  BOOLEAN NOT NULL DEFAULT FALSE,
	registered_at             TIMESTAMPTZ NOT NULL,
	reading_status_updated_at TIMESTAMPTZ NOT NULL,
	top_book_set_at           TIMESTAMPTZ
)`

const createLedgerTableDDL = `
CREATE TABLE IF NOT EXISTS book_barcodes (
	book_id  UUID NOT NULL,
	barcode  TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (book_id, barcode)
)`

// EnsureSchema creates the test tables if they do not exist yet.
func EnsureSchema(t testing.TB, connPool *pgxpool.Pool) {
	ctx := context.Background()

	for _, ddl := range []string{createBarcodesTableDDL, createBooksTableDDL, createLedgerTableDDL} {
		_, err := connPool.Exec(ctx, ddl)
		assert.NoError(t, err, "error creating the test schema")
	}
}

// CleanUp truncates all test tables.
func CleanUp(t testing.TB, connPool *pgxpool.Pool) {
	_, err := connPool.Exec(
		context.Background(),
		"TRUNCATE TABLE book_barcodes, books, barcodes",
	)

	assert.NoError(t, err, "error cleaning up the test tables")
}

// GivenUniqueID returns a fresh v7 UUID for arranging test data.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// GivenAvailableCodes seeds stock rows for the given tier, all available.
func GivenAvailableCodes(t testing.TB, connPool *pgxpool.Pool, tier barcode.Tier, codes ...string) {
	seedCodes(t, connPool, tier, true, codes)
}

// GivenReservedCodes seeds stock rows for the given tier, all already reserved.
func GivenReservedCodes(t testing.TB, connPool *pgxpool.Pool, tier barcode.Tier, codes ...string) {
	seedCodes(t, connPool, tier, false, codes)
}

func seedCodes(t testing.TB, connPool *pgxpool.Pool, tier barcode.Tier, available bool, codes []string) {
	ctx := context.Background()

	for _, code := range codes {
		_, err := connPool.Exec(
			ctx,
			"INSERT INTO barcodes (code, tier, is_available) VALUES ($1, $2, $3)",
			code, tier.String(), available,
		)
		assert.NoError(t, err, "error in arranging test data")
	}
}

// QueryCodeAvailability reads back the availability flag of a single code.
func QueryCodeAvailability(t testing.TB, connPool *pgxpool.Pool, code string) bool {
	var isAvailable bool

	err := connPool.QueryRow(
		context.Background(),
		"SELECT is_available FROM barcodes WHERE code = $1",
		code,
	).Scan(&isAvailable)
	assert.NoError(t, err, "error in verifying test data")

	return isAvailable
}

// CountAvailableCodes counts the available codes in one tier.
func CountAvailableCodes(t testing.TB, connPool *pgxpool.Pool, tier barcode.Tier) int {
	var count int

	err := connPool.QueryRow(
		context.Background(),
		"SELECT count(*) FROM barcodes WHERE tier = $1 AND is_available",
		tier.String(),
	).Scan(&count)
	assert.NoError(t, err, "error in verifying test data")

	return count
}
