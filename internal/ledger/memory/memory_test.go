package memory

import (
	"context"
	"errors"
	"testing"

	"runway/internal/core"
)

func newExpense(cents int64, desc string) core.NewExpense {
	return core.NewExpense{
		Amount:      core.Money{Cents: cents},
		Description: desc,
		RecordedOn:  core.NewDate(2026, 1, 1),
	}
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Append(ctx, newExpense(100, "coffee"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := s.Append(ctx, newExpense(200, "lunch"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids not monotonic: %d then %d", first.ID, second.ID)
	}

	// Deleting must not free the id for reuse.
	if ok, _ := s.Remove(ctx, second.ID); !ok {
		t.Fatalf("expected removal")
	}
	third, err := s.Append(ctx, newExpense(300, "dinner"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if third.ID <= second.ID {
		t.Fatalf("id %d reused after delete of %d", third.ID, second.ID)
	}
}

func TestAppendValidation(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Append(ctx, newExpense(-1, "x")); !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := s.Append(ctx, newExpense(1, "  ")); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	// Nothing must have been written.
	all, _ := s.All(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store after rejected appends, got %d", len(all))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec, _ := s.Append(ctx, newExpense(100, "coffee"))

	ok, err := s.Remove(ctx, rec.ID)
	if err != nil || !ok {
		t.Fatalf("first remove: ok=%v err=%v", ok, err)
	}
	afterFirst, _ := s.All(ctx)

	ok, err = s.Remove(ctx, rec.ID)
	if err != nil || ok {
		t.Fatalf("second remove: ok=%v err=%v, want no-op", ok, err)
	}
	afterSecond, _ := s.All(ctx)
	if len(afterFirst) != len(afterSecond) {
		t.Fatalf("second remove changed visible contents")
	}
}

func TestListOrderAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := s.Append(ctx, newExpense(int64(i*100), "item")); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID <= all[i].ID {
			t.Fatalf("not id-descending at %d: %d then %d", i, all[i-1].ID, all[i].ID)
		}
	}

	// List(n) is a prefix of List().
	limited, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 3 {
		t.Fatalf("len = %d, want 3", len(limited))
	}
	for i := range limited {
		if limited[i].ID != all[i].ID {
			t.Fatalf("limited list is not a prefix at %d", i)
		}
	}
}

func TestAddThenDeleteRestoresState(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Append(ctx, newExpense(100, "keep"))

	before, _ := s.All(ctx)
	rec, _ := s.Append(ctx, newExpense(999, "oops"))
	if ok, _ := s.Remove(ctx, rec.ID); !ok {
		t.Fatalf("expected removal")
	}
	after, _ := s.All(ctx)

	if len(before) != len(after) {
		t.Fatalf("len %d != %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, before[i], after[i])
		}
	}
}
