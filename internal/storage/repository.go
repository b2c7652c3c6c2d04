package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"runway/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable ledger store. Each Append and Remove is a
// single statement, so adds and deletes are atomic with respect to the
// store's own state, and AUTOINCREMENT guarantees ids are monotonic and
// never reused after a delete.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.Appender.
func (r *SQLiteRepository) Append(ctx context.Context, e core.NewExpense) (core.ExpenseRecord, error) {
	if err := e.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, description, recorded_on) VALUES (?, ?, ?)`,
		e.Amount.Cents, e.Description, e.RecordedOn.String())
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("expense id: %w", err)
	}

	rec := core.ExpenseRecord{
		ID:          id,
		Amount:      e.Amount,
		Description: e.Description,
		RecordedOn:  e.RecordedOn,
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", rec.ID,
		"description", rec.Description,
		"amount_cents", rec.Amount.Cents,
		"recorded_on", rec.RecordedOn.String())

	return rec, nil
}

// Remove implements ledger.Remover. A missing id is reported as false, not
// as an error.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expense result: %w", err)
	}
	removed := affected > 0

	if removed {
		slog.InfoContext(ctx, "Expense removed from SQLite", "id", id)
	}

	return removed, nil
}

// List implements ledger.Lister: id descending, at most limit rows when
// limit is positive.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]core.ExpenseRecord, error) {
	query := `SELECT id, amount_cents, description, recorded_on FROM expenses ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var records []core.ExpenseRecord
	for rows.Next() {
		var (
			rec        core.ExpenseRecord
			recordedOn string
		)
		if err := rows.Scan(&rec.ID, &rec.Amount.Cents, &rec.Description, &recordedOn); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		rec.RecordedOn, err = core.ParseDate(recordedOn)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_on %q: %w", recordedOn, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return records, nil
}

// All implements ledger.Lister.
func (r *SQLiteRepository) All(ctx context.Context) ([]core.ExpenseRecord, error) {
	return r.List(ctx, 0)
}

// LedgerEvent is one row of the audit feed written by the worker.
type LedgerEvent struct {
	ExpenseID   int64
	Action      string
	Amount      core.Money
	Description string
	RecordedOn  core.Date
	OccurredAt  time.Time
}

// RecordEvent appends an audit row for a consumed ledger event.
func (r *SQLiteRepository) RecordEvent(ctx context.Context, ev LedgerEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_events (expense_id, action, amount_cents, description, recorded_on, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ExpenseID, ev.Action, ev.Amount.Cents, ev.Description, ev.RecordedOn.String(), ev.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert ledger event: %w", err)
	}

	slog.InfoContext(ctx, "Ledger event recorded",
		"expense_id", ev.ExpenseID,
		"action", ev.Action,
		"amount_cents", ev.Amount.Cents)

	return nil
}

// CountEvents returns the number of audit rows, used by the worker's
// periodic sweep logging.
func (r *SQLiteRepository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ledger events: %w", err)
	}
	return count, nil
}
