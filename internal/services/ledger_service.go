// Package services orchestrates ledger mutations across the durable store
// and the optional AMQP event feed.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"runway/internal/amqp"
	"runway/internal/core"
	"runway/internal/ledger"
)

// LedgerService wraps a ledger store and publishes an event for every
// successful mutation. It implements ledger.Store itself, so callers cannot
// tell it apart from a bare store. Publishing is best-effort: the ledger
// write already succeeded, so a broker outage must never fail the request.
type LedgerService struct {
	store      ledger.Store
	amqpClient *amqp.Client
}

func NewLedgerService(store ledger.Store, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Append validates and persists a record, then publishes a created event.
func (s *LedgerService) Append(ctx context.Context, e core.NewExpense) (core.ExpenseRecord, error) {
	rec, err := s.store.Append(ctx, e)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("append expense: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerEventMessage(
		amqp.ActionCreated, rec.ID, rec.Amount.Cents, rec.Description, rec.RecordedOn.String()))

	return rec, nil
}

// Remove deletes a record and publishes a deleted event when something was
// actually removed. A no-op delete publishes nothing.
func (s *LedgerService) Remove(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove expense: %w", err)
	}

	if removed {
		s.publish(ctx, amqp.NewLedgerEventMessage(amqp.ActionDeleted, id, 0, "", ""))
	}

	return removed, nil
}

// List passes through to the store.
func (s *LedgerService) List(ctx context.Context, limit int) ([]core.ExpenseRecord, error) {
	return s.store.List(ctx, limit)
}

// All passes through to the store.
func (s *LedgerService) All(ctx context.Context) ([]core.ExpenseRecord, error) {
	return s.store.All(ctx)
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event",
			"expense_id", msg.ExpenseID, "action", msg.Action)
		return
	}

	if err := s.amqpClient.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"expense_id", msg.ExpenseID, "action", msg.Action, "error", err)
	}
}

// Close closes the store (when closable) and the AMQP connection.
func (s *LedgerService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
