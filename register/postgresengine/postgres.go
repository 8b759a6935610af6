package postgresengine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ckocevar-dev/rxlog/barcode"
	stockengine "github.com/ckocevar-dev/rxlog/barcode/postgresengine"
	"github.com/ckocevar-dev/rxlog/register"
)

var ErrRegisteringBookFailed = errors.New("registering the book failed")
var ErrUpdatingBookFailed = errors.New("updating the book failed")
var ErrReadingBookFailed = errors.New("reading the book failed")
var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")

const (
	defaultBooksTableName   = "books"
	defaultLedgerTableName  = "book_barcodes"
	defaultBarcodeTableName = "barcodes"

	logMsgBookRegistered    = "book registered"
	logMsgBookUpdated       = "book partially updated"
	logMsgCodesReleased     = "released all barcodes linked to book"
	logMsgLedgerReplaced    = "replaced barcode links for book"
	logMsgNoNotifierSet     = "barcodes released locally without a release notifier configured"
	logMsgDBOperationFailed = "database operation failed"
	logMsgBuildQueryFailed  = "failed to build sql query"
	logAttrError            = "error"
	logAttrBookID           = "book_id"
	logAttrCodeCount        = "code_count"
	logAttrChanged          = "changed"
	logAttrSuppliedCode     = "supplied_code"

	colID              = "id"
	colAuthor          = "author"
	colPublisher       = "publisher"
	colPages           = "pages"
	colTitleKeyword    = "title_keyword"
	colTitleKeywordPos = "title_keyword_position"
	colTitleKeyword2   = "title_keyword2"
	colTitleKeyword2P  = "title_keyword2_position"
	colTitleKeyword3   = "title_keyword3"
	colTitleKeyword3P  = "title_keyword3_position"
	colWidth           = "width"
	colHeight          = "height"
	colReadingStatus   = "reading_status"
	colTopBook         = "top_book"
	colRegisteredAt    = "registered_at"
	colStatusUpdatedAt = "reading_status_updated_at"
	colTopBookSetAt    = "top_book_set_at"

	colBookID   = "book_id"
	colBarcode  = "barcode"
	colPosition = "position"

	dialectPostgres = "postgres"

	sqlNow             = "now()"
	sqlTopBookSetLatch = "coalesce(top_book_set_at, now())"
)

// BookStore is the PostgreSQL-backed book lifecycle controller. It owns
// the book rows and the book/barcode ledger; the barcode availability
// flags are mutated exclusively through the stock store's conditional
// statements, re-executed here inside the controller's transactions.
type BookStore struct {
	pool             *pgxpool.Pool
	booksTableName   string
	ledgerTableName  string
	barcodeTableName string
	releaseNotifier  register.ReleaseNotifier
	logger           barcode.Logger
}

// NewBookStoreFromPGXPool creates a new BookStore using a pgx Pool with optional configuration.
func NewBookStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (BookStore, error) {
	if pool == nil {
		return BookStore{}, barcode.ErrNilDatabaseConnection
	}

	s := BookStore{
		pool:             pool,
		booksTableName:   defaultBooksTableName,
		ledgerTableName:  defaultLedgerTableName,
		barcodeTableName: defaultBarcodeTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return BookStore{}, err
		}
	}

	return s, nil
}

// Register inserts a new book row with the implicit initial reading
// status and, if a non-blank code is supplied, creates the ledger link in
// the same transaction. It returns the generated book id.
//
// Registration never reserves stock by itself: callers that want the
// system to choose a code use the allocator's assign-for-dimensions
// operation first and pass the resulting code in.
func (s BookStore) Register(ctx context.Context, data register.BookData, suppliedCode string) (uuid.UUID, error) {
	if err := data.Validate(); err != nil {
		return uuid.Nil, err
	}

	bookID, idErr := uuid.NewV7()
	if idErr != nil {
		return uuid.Nil, errors.Join(ErrRegisteringBookFailed, idErr)
	}

	insertBookSQL, buildErr := s.buildInsertBookQuery(bookID, data)
	if buildErr != nil {
		return uuid.Nil, buildErr
	}

	trimmedCode := strings.TrimSpace(suppliedCode)

	txErr := s.withinTransaction(ctx, ErrRegisteringBookFailed, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertBookSQL); err != nil {
			return err
		}

		if trimmedCode == "" {
			return nil
		}

		linkSQL, linkBuildErr := s.buildInsertLinkQuery(bookID, trimmedCode, 0)
		if linkBuildErr != nil {
			return linkBuildErr
		}

		_, err := tx.Exec(ctx, linkSQL)

		return err
	})
	if txErr != nil {
		return uuid.Nil, txErr
	}

	s.logOperation(logMsgBookRegistered, logAttrBookID, bookID.String(), logAttrSuppliedCode, trimmedCode)

	return bookID, nil
}

// PartialUpdate applies only the fields present in the request.
//
// Rules, in priority order:
//  1. A reading status normalizing to finished or abandoned applies the
//     field update AND releases every code currently linked to the book:
//     the stock release runs locally per code, the ledger is cleared, and
//     the remote authority is notified per code after commit (best
//     effort). This branch wins over an explicit barcode list supplied in
//     the same request - the list is ignored.
//  2. Otherwise an explicit barcode list replaces the book's entire link
//     set with the deduplicated, order-preserving list. No stock
//     reservation is performed; this path assumes the caller already owns
//     the codes.
//  3. Any other supplied scalar field is applied independently. Setting
//     the top-book flag true the first time latches the top-book-set
//     timestamp; later true updates never overwrite it.
//
// The whole local sequence is one transaction: fully applied or fully
// rolled back. It returns whether any row or link mutation occurred.
func (s BookStore) PartialUpdate(ctx context.Context, bookID uuid.UUID, req register.UpdateRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	if req.IsEmpty() {
		return false, nil
	}

	var changed bool
	var releasedCodes []string

	txErr := s.withinTransaction(ctx, ErrUpdatingBookFailed, func(tx pgx.Tx) error {
		fieldChanged, fieldErr := s.applyFieldUpdates(ctx, tx, bookID, req)
		if fieldErr != nil {
			return fieldErr
		}
		changed = fieldChanged

		if req.ReleasesBarcodes() {
			codes, releaseErr := s.releaseAllLinkedCodes(ctx, tx, bookID)
			if releaseErr != nil {
				return releaseErr
			}

			releasedCodes = codes
			changed = changed || len(codes) > 0

			return nil
		}

		if replacement, ok := req.ReplacementBarcodes(); ok {
			replaced, replaceErr := s.replaceLinkedCodes(ctx, tx, bookID, replacement)
			if replaceErr != nil {
				return replaceErr
			}

			changed = changed || replaced

			return nil
		}

		return nil
	})
	if txErr != nil {
		return false, txErr
	}

	// The notifier runs strictly outside the transaction boundary: the
	// local release is already committed and authoritative, a failing or
	// slow remote authority must not undo or block it.
	s.notifyReleased(ctx, releasedCodes)

	s.logOperation(logMsgBookUpdated, logAttrBookID, bookID.String(), logAttrChanged, changed)

	return changed, nil
}

// LinkedCodes returns the codes currently linked to the book, in link order.
func (s BookStore) LinkedCodes(ctx context.Context, bookID uuid.UUID) ([]string, error) {
	sqlQuery, buildErr := s.buildSelectLinksQuery(bookID)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := s.pool.Query(ctx, sqlQuery)
	if queryErr != nil {
		s.logError(logMsgDBOperationFailed, queryErr, logAttrBookID, bookID.String())
		return nil, errors.Join(ErrReadingBookFailed, barcode.ErrStorageUnavailable, queryErr)
	}
	defer rows.Close()

	var codes []string

	for rows.Next() {
		var code string
		if scanErr := rows.Scan(&code); scanErr != nil {
			return nil, errors.Join(ErrReadingBookFailed, scanErr)
		}

		codes = append(codes, code)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(ErrReadingBookFailed, barcode.ErrStorageUnavailable, rowsErr)
	}

	return codes, nil
}

// FindByID reads a book row back together with its linked codes.
func (s BookStore) FindByID(ctx context.Context, bookID uuid.UUID) (register.Book, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.booksTableName).
		Select(
			colAuthor, colPublisher, colPages,
			colTitleKeyword, colTitleKeywordPos,
			colTitleKeyword2, colTitleKeyword2P,
			colTitleKeyword3, colTitleKeyword3P,
			colWidth, colHeight,
			colReadingStatus, colTopBook,
			colRegisteredAt, colStatusUpdatedAt, colTopBookSetAt,
		).
		Where(goqu.C(colID).Eq(bookID.String())).
		ToSQL()
	if buildErr != nil {
		return register.Book{}, errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	book := register.Book{ID: bookID}
	var rawStatus string
	var topBookSetAt *time.Time

	scanErr := s.pool.QueryRow(ctx, sqlQuery).Scan(
		&book.Author, &book.Publisher, &book.Pages,
		&book.TitleKeywords[0].Word, &book.TitleKeywords[0].Position,
		&book.TitleKeywords[1].Word, &book.TitleKeywords[1].Position,
		&book.TitleKeywords[2].Word, &book.TitleKeywords[2].Position,
		&book.WidthMM, &book.HeightMM,
		&rawStatus, &book.TopBook,
		&book.RegisteredAt, &book.StatusUpdatedAt, &topBookSetAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return register.Book{}, register.ErrBookNotFound
		}

		return register.Book{}, errors.Join(ErrReadingBookFailed, barcode.ErrStorageUnavailable, scanErr)
	}

	book.ReadingStatus = register.ReadingStatus(rawStatus)
	book.TopBookSetAt = topBookSetAt

	codes, codesErr := s.LinkedCodes(ctx, bookID)
	if codesErr != nil {
		return register.Book{}, codesErr
	}
	book.Barcodes = codes

	return book, nil
}

// applyFieldUpdates builds and executes the scalar field update for the
// request, returning whether a book row was actually touched.
func (s BookStore) applyFieldUpdates(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, req register.UpdateRequest) (bool, error) {
	record := goqu.Record{}

	if pages, ok := req.Pages(); ok {
		record[colPages] = pages
	}

	if widthMM, ok := req.WidthMM(); ok {
		record[colWidth] = widthMM
	}

	if heightMM, ok := req.HeightMM(); ok {
		record[colHeight] = heightMM
	}

	if topBook, ok := req.TopBook(); ok {
		record[colTopBook] = topBook
		if topBook {
			record[colTopBookSetAt] = goqu.L(sqlTopBookSetLatch) // idempotent latch
		}
	}

	if status, ok := req.ReadingStatus(); ok {
		record[colReadingStatus] = status.String()
		record[colStatusUpdatedAt] = goqu.L(sqlNow)
	}

	if len(record) == 0 {
		return false, nil
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Update(s.booksTableName).
		Set(record).
		Where(goqu.C(colID).Eq(bookID.String())).
		ToSQL()
	if buildErr != nil {
		s.logError(logMsgBuildQueryFailed, buildErr, logAttrBookID, bookID.String())
		return false, errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	tag, execErr := tx.Exec(ctx, sqlQuery)
	if execErr != nil {
		return false, execErr
	}

	return tag.RowsAffected() > 0, nil
}

// releaseAllLinkedCodes reads the ledger for the book, flips every linked
// code back to available via the stock store's conditional statement, and
// clears the ledger - all on the supplied transaction.
func (s BookStore) releaseAllLinkedCodes(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) ([]string, error) {
	selectSQL, buildErr := s.buildSelectLinksQuery(bookID)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := tx.Query(ctx, selectSQL)
	if queryErr != nil {
		return nil, queryErr
	}

	var codes []string
	for rows.Next() {
		var code string
		if scanErr := rows.Scan(&code); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		codes = append(codes, code)
	}
	rows.Close()

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}

	for _, code := range codes {
		releaseSQL, releaseBuildErr := stockengine.BuildReleaseQuery(s.barcodeTableName, code)
		if releaseBuildErr != nil {
			return nil, releaseBuildErr
		}

		if _, execErr := tx.Exec(ctx, releaseSQL); execErr != nil {
			return nil, execErr
		}
	}

	deleteSQL, deleteBuildErr := s.buildDeleteLinksQuery(bookID)
	if deleteBuildErr != nil {
		return nil, deleteBuildErr
	}

	if _, execErr := tx.Exec(ctx, deleteSQL); execErr != nil {
		return nil, execErr
	}

	if len(codes) > 0 {
		s.logOperation(logMsgCodesReleased, logAttrBookID, bookID.String(), logAttrCodeCount, len(codes))
	}

	return codes, nil
}

// replaceLinkedCodes replaces the book's entire link set with the given
// normalized list, preserving its order. It reports whether any link
// mutation occurred.
func (s BookStore) replaceLinkedCodes(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, codes []string) (bool, error) {
	deleteSQL, buildErr := s.buildDeleteLinksQuery(bookID)
	if buildErr != nil {
		return false, buildErr
	}

	tag, execErr := tx.Exec(ctx, deleteSQL)
	if execErr != nil {
		return false, execErr
	}

	mutated := tag.RowsAffected() > 0

	for position, code := range codes {
		linkSQL, linkBuildErr := s.buildInsertLinkQuery(bookID, code, position)
		if linkBuildErr != nil {
			return false, linkBuildErr
		}

		if _, linkExecErr := tx.Exec(ctx, linkSQL); linkExecErr != nil {
			return false, linkExecErr
		}

		mutated = true
	}

	if mutated {
		s.logOperation(logMsgLedgerReplaced, logAttrBookID, bookID.String(), logAttrCodeCount, len(codes))
	}

	return mutated, nil
}

// withinTransaction runs fn inside a transaction, committing on success
// and rolling back on any error. Database failures are joined with the
// given sentinel and the storage-unavailable marker.
func (s BookStore) withinTransaction(ctx context.Context, sentinel error, fn func(tx pgx.Tx) error) error {
	tx, beginErr := s.pool.Begin(ctx)
	if beginErr != nil {
		s.logError(logMsgDBOperationFailed, beginErr)
		return errors.Join(sentinel, barcode.ErrStorageUnavailable, beginErr)
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op once committed
	}()

	if fnErr := fn(tx); fnErr != nil {
		s.logError(logMsgDBOperationFailed, fnErr)
		return errors.Join(sentinel, barcode.ErrStorageUnavailable, fnErr)
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.logError(logMsgDBOperationFailed, commitErr)
		return errors.Join(sentinel, barcode.ErrStorageUnavailable, commitErr)
	}

	return nil
}

// notifyReleased mirrors every local release to the remote label
// authority, best effort, one attempt per code.
func (s BookStore) notifyReleased(ctx context.Context, codes []string) {
	if len(codes) == 0 {
		return
	}

	if s.releaseNotifier == nil {
		if s.logger != nil {
			s.logger.Warn(logMsgNoNotifierSet, logAttrCodeCount, len(codes))
		}
		return
	}

	for _, code := range codes {
		s.releaseNotifier.NotifyReleased(ctx, code)
	}
}

func (s BookStore) buildInsertBookQuery(bookID uuid.UUID, data register.BookData) (string, error) {
	record := goqu.Record{
		colID:              bookID.String(),
		colAuthor:          data.Author,
		colPublisher:       data.Publisher,
		colPages:           data.Pages,
		colTitleKeyword:    data.TitleKeywords[0].Word,
		colTitleKeywordPos: data.TitleKeywords[0].Position,
		colTitleKeyword2:   data.TitleKeywords[1].Word,
		colTitleKeyword2P:  data.TitleKeywords[1].Position,
		colTitleKeyword3:   data.TitleKeywords[2].Word,
		colTitleKeyword3P:  data.TitleKeywords[2].Position,
		colWidth:           data.WidthMM,
		colHeight:          data.HeightMM,
		colReadingStatus:   register.StatusInProgress.String(),
		colTopBook:         data.TopBook,
		colRegisteredAt:    goqu.L(sqlNow),
		colStatusUpdatedAt: goqu.L(sqlNow),
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.booksTableName).
		Rows(record).
		ToSQL()
	if buildErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	return sqlQuery, nil
}

func (s BookStore) buildInsertLinkQuery(bookID uuid.UUID, code string, position int) (string, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.ledgerTableName).
		Rows(goqu.Record{
			colBookID:   bookID.String(),
			colBarcode:  code,
			colPosition: position,
		}).
		ToSQL()
	if buildErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	return sqlQuery, nil
}

func (s BookStore) buildSelectLinksQuery(bookID uuid.UUID) (string, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.ledgerTableName).
		Select(colBarcode).
		Where(goqu.C(colBookID).Eq(bookID.String())).
		Order(goqu.I(colPosition).Asc()).
		ToSQL()
	if buildErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	return sqlQuery, nil
}

func (s BookStore) buildDeleteLinksQuery(bookID uuid.UUID) (string, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Delete(s.ledgerTableName).
		Where(goqu.C(colBookID).Eq(bookID.String())).
		ToSQL()
	if buildErr != nil {
		return "", errors.Join(barcode.ErrBuildingQueryFailed, buildErr)
	}

	return sqlQuery, nil
}

// logOperation logs operational information at info level if the logger is configured.
func (s BookStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s BookStore) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}
