package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"runway/internal/amqp"
	"runway/internal/storage"
)

func newWorker(t *testing.T) *AuditWorker {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "runway.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewAuditWorker(repo)
}

func TestHandleEventRecordsAuditRow(t *testing.T) {
	w := newWorker(t)
	ctx := context.Background()

	msg := amqp.NewLedgerEventMessage(amqp.ActionCreated, 3, 450, "bus ticket", "2026-01-02")
	if err := w.HandleEvent(ctx, msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if err := w.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
}

func TestHandleDeleteEventWithoutDate(t *testing.T) {
	w := newWorker(t)

	msg := &amqp.LedgerEventMessage{
		ExpenseID: 3,
		Action:    amqp.ActionDeleted,
		Timestamp: time.Date(2026, 1, 5, 13, 30, 0, 0, time.UTC),
	}
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle delete event: %v", err)
	}
}

func TestHandleEventRejectsBadDate(t *testing.T) {
	w := newWorker(t)

	msg := amqp.NewLedgerEventMessage(amqp.ActionCreated, 3, 450, "bus ticket", "02/01/2026")
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Fatalf("expected error for malformed recorded_on")
	}
}
