package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// advisoryLockClass namespaces the per-tournament advisory locks of this service.
const advisoryLockClass = 7301

// Transactor runs a unit of work inside one transaction that holds the tournament's
// advisory lock until commit or rollback.
type Transactor interface {
	InTournamentTx(ctx context.Context, tournamentID int, fn func(exec SQLExecutor) error) error
}

type postgresTransactor struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresTransactor(db *sql.DB, logger *slog.Logger) Transactor {
	return &postgresTransactor{db: db, logger: logger}
}

func (t *postgresTransactor) InTournamentTx(ctx context.Context, tournamentID int, fn func(exec SQLExecutor) error) (txErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				t.logger.ErrorContext(ctx, "rollback failed",
					slog.Int("tournament_id", tournamentID), slog.Any("error", rbErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, advisoryLockClass, tournamentID); err != nil {
		return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}
	return fn(tx)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// nullableInt scans a nullable integer column into *int.
func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
