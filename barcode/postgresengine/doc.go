// Package postgresengine provides the PostgreSQL implementation of the
// barcode stock reservation store.
//
// The store owns the pool of inventory codes. Reservation and release are
// implemented as single conditional UPDATE statements guarded by the
// current availability flag, with the affected-row count as the
// arbitration signal. This eliminates the time-of-check/time-of-use gap
// between concurrent requesters: under arbitrary concurrency, exactly one
// caller succeeds per available code.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Atomic reserve-one-matching with tier priority fallback
//   - Idempotent release that never errors on unknown codes
//   - Configurable table name and optional observability hooks
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStockStoreFromPGXPool(db)
//
//	// With operational logging and a custom table
//	store, _ := postgresengine.NewStockStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("barcodes"),
//		postgresengine.WithLogger(logger),
//	)
//
//	code, err := store.ReserveOneFor(ctx, orderedTiers)
//	released, err := store.Release(ctx, code)
package postgresengine
