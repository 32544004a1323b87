package base

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betterthansis/unisis/internal/model"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so repository code runs inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

// Transactor opens transactions on the pool.
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a Transactor on the pool.
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// InTx runs fn inside a transaction. The transaction is committed when fn returns nil
// and rolled back otherwise.
func (t *Transactor) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return Classify("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return Classify("commit transaction", err)
	}
	return nil
}

// IsNotFound reports whether err is pgx.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Postgres error classes we surface to callers.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

// Classify wraps a driver error with the model error kind it represents.
// pgx.ErrNoRows becomes model.ErrNotFound, constraint violations become conflict or
// validation errors, and everything else is model.ErrStoreUnavailable.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, model.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, model.NewValidationError(
				fmt.Errorf("reference constraint %s violated", pgErr.ConstraintName),
			))
		case codeNotNullViolation:
			return fmt.Errorf("%s: %w", op, model.FieldValidationError(pgErr.ColumnName, "is required"))
		case codeCheckViolation, codeStringTooLong:
			return fmt.Errorf("%s: %w", op, model.NewValidationError(errors.New(pgErr.Message)))
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}

// NullID maps the form convention "0 means unset" to a nullable foreign key.
func NullID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
