// Package postgresengine provides the PostgreSQL implementation of the
// book lifecycle controller and the book/barcode ledger.
//
// The controller orchestrates registration (linking a supplied code) and
// partial updates. A reading-status transition to finished or abandoned
// releases every linked code through the same conditional
// compare-and-swap statement the stock store uses, clears the ledger,
// and applies the field update - all inside one transaction that is
// either fully applied or fully rolled back. The best-effort remote
// release notification runs strictly after the local commit and can
// never undo it.
//
// Usage example:
//
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	books, _ := postgresengine.NewBookStoreFromPGXPool(
//		pool,
//		postgresengine.WithReleaseNotifier(httpNotifier),
//		postgresengine.WithLogger(logger),
//	)
//
//	bookID, err := books.Register(ctx, data, "gy042")
//	changed, err := books.PartialUpdate(ctx, bookID,
//		register.UpdateRequest{}.WithReadingStatus("finished"))
package postgresengine
