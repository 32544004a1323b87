package base

import (
	"context"
	"fmt"

	"github.com/betterthansis/unisis/internal/model"
)

// ExecUpdate runs u against the row with the given key. An empty update is a validation
// error and a missing row is model.ErrNotFound.
func ExecUpdate(ctx context.Context, db DBTX, op string, u *Update, id int64) error {
	if u.Empty() {
		return fmt.Errorf("%s: %w", op, model.ErrEmptyUpdate())
	}

	query, args := u.SQL(id)
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return Classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return nil
}

// ExecDelete deletes the row whose key column equals id.
func ExecDelete(ctx context.Context, db DBTX, op, table, key string, id int64) error {
	tag, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE "+key+" = $1", id)
	if err != nil {
		return Classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return nil
}
