package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// Queryable is the storage-execution surface shared by *pgxpool.Pool and
// pgx.Tx. Repositories resolve one from the request context so the same
// code runs standalone or inside a workflow transaction.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TxFunc is a unit of work executed inside a transaction.
type TxFunc func(ctx context.Context) error

// Runner executes a TxFunc with transactional semantics. The production
// implementation is NewRunner; tests substitute a passthrough.
type Runner func(ctx context.Context, fn TxFunc) error

// NewRunner returns a Runner that begins a transaction on pool, stores it in
// the context for repositories to pick up, and commits on success. Any error
// from fn rolls the whole unit of work back, which is what keeps composite
// record creation (allocate ID + insert, or multi-row creation) atomic.
func NewRunner(pool *pgxpool.Pool) Runner {
	return func(ctx context.Context, fn TxFunc) error {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
}

// TxFromContext retrieves the in-flight transaction, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Conn returns the transaction bound to ctx, or fallback when no
// transaction is in flight.
func Conn(ctx context.Context, fallback Queryable) Queryable {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return fallback
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505). Workflows that derive display IDs retry once
// when two concurrent requests race for the same next ID.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
