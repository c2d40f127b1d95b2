package session

import (
	"context"
	"database/sql"
	"fmt"
)

// batch executes stmt once for each entry of rows inside one transaction, so
// either every row is written or none is. A panic rolls back and is rethrown.
func batch(ctx context.Context, db *sql.DB, stmt string, rows [][]any) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	st, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, args := range rows {
		if _, err = st.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
