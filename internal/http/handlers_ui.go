package http

import (
	"net/http"
	"strings"

	"runway/internal/core"
	applog "runway/internal/log"
)

type historyItem struct {
	ID          int64
	Date        string
	Description string
	Amount      string
}

type indexData struct {
	Today       string
	Deadline    string
	StartBudget string
	TotalSpent  string
	Remaining   string
	DaysLeft    int
	DailyLimit  string
	Overspent   bool
	HasError    bool
	Items       []historyItem
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	records, err := s.store.All(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load ledger",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender)
		http.Error(w, "error loading ledger", http.StatusInternalServerError)
		return
	}

	today := core.DateOf(s.now())
	snap := core.ComputeSnapshot(s.budget, records, today)

	data := indexData{
		Today:       snap.Today.String(),
		Deadline:    s.budget.Deadline.String(),
		StartBudget: formatAmount(s.budget.StartBudget.Units()),
		TotalSpent:  formatAmount(snap.TotalSpent.Units()),
		Remaining:   formatAmount(snap.Remaining.Units()),
		DaysLeft:    snap.DaysLeft,
		DailyLimit:  formatAmount(snap.DailyLimit),
		Overspent:   snap.Remaining.Cents < 0,
		HasError:    r.URL.Query().Get("error") != "",
	}

	// Most recent ten, same cut as the history endpoint default.
	for i, rec := range records {
		if i >= 10 {
			break
		}
		data.Items = append(data.Items, historyItem{
			ID:          rec.ID,
			Date:        rec.RecordedOn.String(),
			Description: rec.Description,
			Amount:      formatAmount(rec.Amount.Units()),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleUIAdd records an expense submitted from the dashboard form and
// redirects back to the dashboard.
func (s *Server) handleUIAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.logger.WarnContext(r.Context(), "Parse form error", applog.FieldError, err)
		http.Redirect(w, r, "/?error=form", http.StatusSeeOther)
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		http.Redirect(w, r, "/?error=amount", http.StatusSeeOther)
		return
	}

	today := core.DateOf(s.now())
	recordedOn, err := parseRecordedOn(r.Form.Get("date"), today)
	if err != nil {
		http.Redirect(w, r, "/?error=date", http.StatusSeeOther)
		return
	}

	exp := core.NewExpense{
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(r.Form.Get("description")),
		RecordedOn:  recordedOn,
	}
	if err := exp.Validate(); err != nil {
		http.Redirect(w, r, "/?error=invalid", http.StatusSeeOther)
		return
	}

	rec, err := s.store.Append(r.Context(), exp)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save expense",
			applog.FieldError, err,
			applog.FieldExpenseDesc, exp.Description,
			applog.FieldAmountCents, exp.Amount.Cents,
			applog.FieldOperation, applog.OpAppend)
		http.Redirect(w, r, "/?error=save", http.StatusSeeOther)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense recorded",
		applog.FieldExpenseID, rec.ID,
		applog.FieldAmountCents, rec.Amount.Cents,
		applog.FieldOperation, applog.OpAppend)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUIDelete removes an expense from the dashboard form. Deleting an
// already-deleted id redirects the same way, the dashboard just shows the
// current state.
func (s *Server) handleUIDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, err := pathID(r.URL.Path, "/ui/delete/")
	if err != nil {
		http.Redirect(w, r, "/?error=id", http.StatusSeeOther)
		return
	}

	removed, err := s.store.Remove(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to remove expense",
			applog.FieldError, err,
			applog.FieldExpenseID, id,
			applog.FieldOperation, applog.OpRemove)
		http.Redirect(w, r, "/?error=delete", http.StatusSeeOther)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense delete handled",
		applog.FieldExpenseID, id,
		"removed", removed,
		applog.FieldOperation, applog.OpRemove)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
