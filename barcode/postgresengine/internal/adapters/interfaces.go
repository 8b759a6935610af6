package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the stock store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows. Err must be
// checked after Next returns false: drivers defer execution errors to
// the read phase, so an error-terminated result set is otherwise
// indistinguishable from an empty one.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
