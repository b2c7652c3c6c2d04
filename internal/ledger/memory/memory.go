// Package memory provides an in-memory ledger store, used as the default
// backend for local runs and as a fixture in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"runway/internal/core"
)

type Store struct {
	mu     sync.Mutex
	items  map[int64]core.ExpenseRecord
	nextID int64
}

func New() *Store {
	return &Store{items: make(map[int64]core.ExpenseRecord), nextID: 1}
}

// Append stores the expense under a freshly assigned id. The id counter only
// ever moves forward, so ids are never reused after a delete.
func (s *Store) Append(_ context.Context, e core.NewExpense) (core.ExpenseRecord, error) {
	if err := e.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := core.ExpenseRecord{
		ID:          s.nextID,
		Amount:      e.Amount,
		Description: e.Description,
		RecordedOn:  e.RecordedOn,
	}
	s.items[rec.ID] = rec
	s.nextID++
	return rec, nil
}

// Remove deletes the record if present and reports whether it did.
func (s *Store) Remove(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

// List returns records ordered by id descending, at most limit of them when
// limit is positive.
func (s *Store) List(_ context.Context, limit int) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	out := make([]core.ExpenseRecord, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every live record.
func (s *Store) All(ctx context.Context) ([]core.ExpenseRecord, error) {
	return s.List(ctx, 0)
}
