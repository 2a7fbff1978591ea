package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Runner executes a function inside one database transaction, rolling
// back whenever the function fails.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) Runner {
	return Runner{db: db}
}

func (r Runner) Within(ctx context.Context, fn func(*sql.Tx) error) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(dbtx); err != nil {
		if rbErr := dbtx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
