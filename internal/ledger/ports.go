// Package ledger defines the ports a durable expense collection must
// implement. The budget engine only ever consumes All; the HTTP layer uses
// the full set.
package ledger

import (
	"context"

	"runway/internal/core"
)

type (
	// Appender persists a new record, assigning the next unique id.
	// Validation failures surface before any write happens.
	Appender interface {
		Append(ctx context.Context, e core.NewExpense) (core.ExpenseRecord, error)
	}

	// Remover deletes a record by id. Absence is reported as false, not an
	// error, so concurrent deletes of the same record stay benign.
	Remover interface {
		Remove(ctx context.Context, id int64) (bool, error)
	}

	// Lister retrieves records ordered by id descending (most recent first).
	// A non-positive limit means all records.
	Lister interface {
		List(ctx context.Context, limit int) ([]core.ExpenseRecord, error)
		All(ctx context.Context) ([]core.ExpenseRecord, error)
	}

	// Store is the full ledger contract.
	Store interface {
		Appender
		Remover
		Lister
	}
)
