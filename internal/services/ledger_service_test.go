package services

import (
	"context"
	"errors"
	"testing"

	"runway/internal/core"
	"runway/internal/ledger/memory"
)

func newExpense(cents int64, desc string) core.NewExpense {
	return core.NewExpense{
		Amount:      core.Money{Cents: cents},
		Description: desc,
		RecordedOn:  core.NewDate(2026, 1, 2),
	}
}

func TestAppendAndRemoveWithoutAMQP(t *testing.T) {
	// nil AMQP client means events are skipped, never failing the mutation.
	svc := NewLedgerService(memory.New(), nil)
	ctx := context.Background()

	rec, err := svc.Append(ctx, newExpense(1234, "groceries"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	removed, err := svc.Remove(ctx, rec.ID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	removed, err = svc.Remove(ctx, rec.ID)
	if err != nil || removed {
		t.Fatalf("second remove: removed=%v err=%v, want no-op", removed, err)
	}
}

func TestAppendPropagatesValidationError(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)

	_, err := svc.Append(context.Background(), newExpense(-1, "x"))
	if !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected wrapped ErrNegativeAmount, got %v", err)
	}
}

func TestListPassesThrough(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Append(ctx, newExpense(100, "item")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	two, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(two) != 2 {
		t.Fatalf("len = %d, want 2", len(two))
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
