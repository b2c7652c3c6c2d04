package http

import (
	"encoding/json"
	"net/http"

	"runway/internal/core"
	applog "runway/internal/log"
)

// expenseJSON is the wire form of a ledger record. Amounts cross the wire
// in currency units with two decimals.
type expenseJSON struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func toExpenseJSON(rec core.ExpenseRecord) expenseJSON {
	return expenseJSON{
		ID:          rec.ID,
		Amount:      core.Round2(rec.Amount.Units()),
		Description: rec.Description,
		Date:        rec.RecordedOn.String(),
	}
}

// handleSpend records a new expense from a JSON body.
func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Amount      json.Number `json:"amount"`
		Description string      `json:"description"`
		Date        string      `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.WarnContext(r.Context(), "Malformed spend body", applog.FieldError, err)
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(body.Amount.String())
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	today := core.DateOf(s.now())
	recordedOn, err := parseRecordedOn(body.Date, today)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	exp := core.NewExpense{
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(body.Description),
		RecordedOn:  recordedOn,
	}
	if err := exp.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := s.store.Append(r.Context(), exp)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "Failed to save expense",
				applog.FieldError, err,
				applog.FieldExpenseDesc, exp.Description,
				applog.FieldAmountCents, exp.Amount.Cents,
				applog.FieldOperation, applog.OpAppend)
			writeJSONError(w, status, "error saving expense")
			return
		}
		writeJSONError(w, status, err.Error())
		return
	}

	s.logger.InfoContext(r.Context(), "Expense recorded",
		applog.FieldExpenseID, rec.ID,
		applog.FieldExpenseDesc, rec.Description,
		applog.FieldAmountCents, rec.Amount.Cents,
		applog.FieldRecordedOn, rec.RecordedOn.String(),
		applog.FieldOperation, applog.OpAppend)

	writeJSON(w, http.StatusCreated, toExpenseJSON(rec))
}

// handleSpendByID removes an expense. Deleting an id that is already gone
// reports removed=false with the same 200 status.
func (s *Server) handleSpendByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, err := pathID(r.URL.Path, "/spend/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return
	}

	removed, err := s.store.Remove(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to remove expense",
			applog.FieldError, err,
			applog.FieldExpenseID, id,
			applog.FieldOperation, applog.OpRemove)
		writeJSONError(w, http.StatusInternalServerError, "error removing expense")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// handleDashboard returns the derived budget figures for today. Nothing is
// cached: the snapshot is recomputed from the ledger on every request.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := s.store.All(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load ledger",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpSnapshot)
		writeJSONError(w, http.StatusInternalServerError, "error loading ledger")
		return
	}

	today := core.DateOf(s.now())
	snap := core.ComputeSnapshot(s.budget, records, today)

	s.logger.DebugContext(r.Context(), "Snapshot computed",
		applog.FieldDaysLeft, snap.DaysLeft,
		applog.FieldAmountCents, snap.Remaining.Cents,
		applog.FieldOperation, applog.OpSnapshot)

	writeJSON(w, http.StatusOK, map[string]any{
		"today":        snap.Today.String(),
		"start_budget": core.Round2(s.budget.StartBudget.Units()),
		"total_spent":  core.Round2(snap.TotalSpent.Units()),
		"remaining":    core.Round2(snap.Remaining.Units()),
		"days_left":    snap.DaysLeft,
		"daily_limit":  core.Round2(snap.DailyLimit),
	})
}

// handleHistory lists recent expenses, most recent first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r, 10)
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list expenses",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpList)
		writeJSONError(w, http.StatusInternalServerError, "error listing expenses")
		return
	}

	history := make([]expenseJSON, 0, len(records))
	for _, rec := range records {
		history = append(history, toExpenseJSON(rec))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(history),
		"history": history,
	})
}
