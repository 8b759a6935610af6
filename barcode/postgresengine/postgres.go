package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/ckocevar-dev/rxlog/barcode"
	"github.com/ckocevar-dev/rxlog/barcode/postgresengine/internal/adapters"
)

const (
	defaultBarcodeTableName     = "barcodes"
	logMsgBuildReserveSQLFailed = "failed to build reserve query"
	logMsgBuildReleaseSQLFailed = "failed to build release query"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgDBExecFailed          = "database execution failed during release"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgCodeReserved          = "barcode reserved"
	logMsgCodeReleased          = "barcode released"
	logMsgNoStock               = "no stock in any matching tier"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "stock operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrCode                 = "code"
	logAttrTier                 = "tier"
	logAttrTierCount            = "tier_count"
	logAttrReleased             = "released"
	logAttrDurationMS           = "duration_ms"
	logActionReserve            = "reserve"
	logActionRelease            = "release"
	colCode                     = "code"
	colTier                     = "tier"
	colIsAvailable              = "is_available"
	dialectPostgres             = "postgres"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// StockStore is the PostgreSQL-backed pool of inventory codes.
// It leverages a database adapter and supports customizable logging,
// metrics, tracing, and table configuration.
//
// The store is stateless between calls; the database is the sole
// synchronization point and arbitration authority.
type StockStore struct {
	db               adapters.DBAdapter
	barcodeTableName string
	logger           barcode.Logger
	metricsCollector barcode.MetricsCollector
	tracingCollector barcode.TracingCollector
	contextualLogger barcode.ContextualLogger
}

// NewStockStoreFromPGXPool creates a new StockStore using a pgx Pool with optional configuration.
func NewStockStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (StockStore, error) {
	if db == nil {
		return StockStore{}, barcode.ErrNilDatabaseConnection
	}

	return applyOptions(StockStore{
		db:               adapters.NewPGXAdapter(db),
		barcodeTableName: defaultBarcodeTableName,
	}, options)
}

// NewStockStoreFromSQLDB creates a new StockStore using a sql.DB with optional configuration.
func NewStockStoreFromSQLDB(db *sql.DB, options ...Option) (StockStore, error) {
	if db == nil {
		return StockStore{}, barcode.ErrNilDatabaseConnection
	}

	return applyOptions(StockStore{
		db:               adapters.NewSQLAdapter(db),
		barcodeTableName: defaultBarcodeTableName,
	}, options)
}

// NewStockStoreFromSQLX creates a new StockStore using a sqlx.DB with optional configuration.
func NewStockStoreFromSQLX(db *sqlx.DB, options ...Option) (StockStore, error) {
	if db == nil {
		return StockStore{}, barcode.ErrNilDatabaseConnection
	}

	return applyOptions(StockStore{
		db:               adapters.NewSQLXAdapter(db),
		barcodeTableName: defaultBarcodeTableName,
	}, options)
}

func applyOptions(s StockStore, options []Option) (StockStore, error) {
	for _, option := range options {
		if err := option(&s); err != nil {
			return StockStore{}, err
		}
	}

	return s, nil
}

// ReserveOneFor atomically reserves one available code, trying the given
// tiers in priority order. For each tier a single conditional UPDATE flips
// the availability flag of one available code in an indivisible step; the
// returned row is the arbitration signal, so no two concurrent callers can
// ever receive the same code.
//
// When every tier is exhausted it returns a barcode.NoStockError carrying
// the first tier of the input (the first tier that had an applicable rule).
func (s StockStore) ReserveOneFor(ctx context.Context, orderedTiers []barcode.Tier) (barcode.CodeString, error) {
	if len(orderedTiers) == 0 {
		return "", barcode.ErrNoTiersSupplied
	}

	spanCtx, span := s.startReserveSpan(ctx, orderedTiers)
	start := time.Now()

	for _, tier := range orderedTiers {
		code, found, err := s.reserveInTier(spanCtx, tier)
		if err != nil {
			s.recordReserveError(spanCtx, span, errorTypeFrom(err), time.Since(start))
			return "", err
		}

		if found {
			s.logOperation(logMsgCodeReserved, logAttrCode, code, logAttrTier, tier.String())
			s.recordReserveSuccess(spanCtx, span, code, tier, time.Since(start))
			return code, nil
		}
	}

	noStockErr := barcode.NoStockError{MatchedTier: orderedTiers[0]}
	s.logOperation(logMsgNoStock, logAttrTier, orderedTiers[0].String(), logAttrTierCount, len(orderedTiers))
	s.recordReserveNoStock(spanCtx, span, orderedTiers[0], time.Since(start))

	return "", noStockErr
}

// reserveInTier executes the conditional reserve statement for one tier.
// It reports found=false when the tier currently has no available code.
func (s StockStore) reserveInTier(ctx context.Context, tier barcode.Tier) (barcode.CodeString, bool, error) {
	sqlQuery, buildErr := BuildReserveOneQuery(s.barcodeTableName, tier)
	if buildErr != nil {
		s.logError(logMsgBuildReserveSQLFailed, buildErr, logAttrTier, tier.String())
		return "", false, buildErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionReserve, time.Since(start))

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return "", false, errors.Join(barcode.ErrReservingCodeFailed, barcode.ErrStorageUnavailable, queryErr)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			s.logError(logMsgDBQueryFailed, rowsErr, logAttrQuery, sqlQuery)
			return "", false, errors.Join(barcode.ErrReservingCodeFailed, barcode.ErrStorageUnavailable, rowsErr)
		}

		return "", false, nil // tier exhausted, fall through to the next one
	}

	var code barcode.CodeString
	if scanErr := rows.Scan(&code); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return "", false, errors.Join(barcode.ErrScanningDBRowFailed, scanErr)
	}

	return code, true, nil
}

// Release flips the availability flag of the given code back to true,
// only if it is currently false. It is idempotent: unknown or
// already-available codes return released=false, never an error.
func (s StockStore) Release(ctx context.Context, code barcode.CodeString) (bool, error) {
	trimmedCode := strings.TrimSpace(code)
	if trimmedCode == "" {
		return false, barcode.ErrBlankCode
	}

	sqlQuery, buildErr := BuildReleaseQuery(s.barcodeTableName, trimmedCode)
	if buildErr != nil {
		s.logError(logMsgBuildReleaseSQLFailed, buildErr, logAttrCode, trimmedCode)
		return false, buildErr
	}

	spanCtx, span := s.startReleaseSpan(ctx, trimmedCode)

	rowsAffected, duration, execErr := s.executeRelease(spanCtx, sqlQuery)
	if execErr != nil {
		s.recordReleaseError(spanCtx, span, errorTypeFrom(execErr), duration)
		return false, execErr
	}

	released := rowsAffected > 0
	s.logOperation(logMsgCodeReleased, logAttrCode, trimmedCode, logAttrReleased, released)
	s.recordReleaseSuccess(spanCtx, span, released, duration)

	return released, nil
}

// executeRelease executes the release statement and returns rows affected and duration.
func (s StockStore) executeRelease(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionRelease, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, duration, errors.Join(barcode.ErrReleasingCodeFailed, barcode.ErrStorageUnavailable, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, duration, errors.Join(barcode.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (s StockStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// BuildReserveOneQuery builds the conditional compare-and-swap statement
// that reserves one available code of the given tier:
// the candidate row is picked with FOR UPDATE SKIP LOCKED and flipped to
// unavailable only while its availability flag still holds, returning the
// code. The statement is exported so that transactional callers (e.g. the
// book lifecycle engine) can run the identical statement inside their own
// transaction.
func BuildReserveOneQuery(barcodeTableName string, tier barcode.Tier) (sqlQueryString, error) {
	builder := goqu.Dialect(dialectPostgres)

	pickStmt := builder.
		From(barcodeTableName).
		Select(colCode).
		Where(goqu.Ex{colTier: tier.String(), colIsAvailable: true}).
		Order(goqu.I(colCode).Asc()).
		Limit(1).
		ForUpdate(exp.SkipLocked)

	updateStmt := builder.
		Update(barcodeTableName).
		Set(goqu.Record{colIsAvailable: false}).
		Where(
			goqu.C(colCode).In(pickStmt),
			goqu.C(colIsAvailable).IsTrue(),
		).
		Returning(colCode)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// BuildReleaseQuery builds the conditional statement that flips one code
// back to available only if it is currently reserved. The affected-row
// count is the released/not-released signal.
func BuildReleaseQuery(barcodeTableName string, code barcode.CodeString) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(barcodeTableName).
		Set(goqu.Record{colIsAvailable: true}).
		Where(
			goqu.C(colCode).Eq(code),
			goqu.C(colIsAvailable).IsFalse(),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// errorTypeFrom maps an error to a coarse type label for metrics and spans.
func errorTypeFrom(err error) string {
	switch {
	case errors.Is(err, barcode.ErrStorageUnavailable):
		return "storage_unavailable"
	case errors.Is(err, barcode.ErrBuildingQueryFailed):
		return "query_build"
	case errors.Is(err, barcode.ErrScanningDBRowFailed):
		return "row_scan"
	default:
		return "internal"
	}
}
