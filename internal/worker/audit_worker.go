// Package worker turns the AMQP ledger event feed into durable audit rows.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"runway/internal/amqp"
	"runway/internal/core"
	"runway/internal/storage"
)

// AuditWorker consumes ledger events and appends them to the ledger_events
// table. Handlers are idempotent-by-append: a redelivered message produces a
// duplicate audit row, which is acceptable for a trail and keeps acking simple.
type AuditWorker struct {
	storage *storage.SQLiteRepository
}

func NewAuditWorker(storage *storage.SQLiteRepository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleEvent records a single consumed ledger event.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"expense_id", msg.ExpenseID,
		"action", msg.Action)

	ev := storage.LedgerEvent{
		ExpenseID:   msg.ExpenseID,
		Action:      msg.Action,
		Amount:      core.Money{Cents: msg.AmountCents},
		Description: msg.Description,
		OccurredAt:  msg.Timestamp,
	}
	if msg.RecordedOn != "" {
		recordedOn, err := core.ParseDate(msg.RecordedOn)
		if err != nil {
			return fmt.Errorf("parse recorded_on %q: %w", msg.RecordedOn, err)
		}
		ev.RecordedOn = recordedOn
	} else {
		// Delete events carry no date; stamp them with the event time.
		ev.RecordedOn = core.DateOf(msg.Timestamp)
	}

	if err := w.storage.RecordEvent(ctx, ev); err != nil {
		return fmt.Errorf("record ledger event: %w", err)
	}

	return nil
}

// Sweep logs the current size of the audit trail. It runs periodically so
// operators can see at a glance that the feed is still flowing.
func (w *AuditWorker) Sweep(ctx context.Context) error {
	count, err := w.storage.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("sweep audit trail: %w", err)
	}

	slog.InfoContext(ctx, "Audit trail sweep", "events", count)
	return nil
}
