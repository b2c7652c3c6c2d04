package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"runway/internal/core"
)

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestSpendCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/spend", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Malformed body
	rr = postJSON(t, srv, "/spend", `{nope`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// Validation failures
	for name, body := range map[string]string{
		"missing amount":    `{"description": "coffee"}`,
		"negative amount":   `{"amount": -5, "description": "coffee"}`,
		"empty description": `{"amount": 3.50, "description": "   "}`,
		"bad date":          `{"amount": 3.50, "description": "coffee", "date": "soon"}`,
	} {
		rr = postJSON(t, srv, "/spend", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", name, rr.Code)
		}
	}

	// Success, date defaults to today
	rr = postJSON(t, srv, "/spend", `{"amount": 3.50, "description": "coffee"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created expenseJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", created)
	}
	if created.Amount != 3.5 {
		t.Fatalf("amount=%v, want 3.5", created.Amount)
	}
	if created.Date != "2025-02-28" {
		t.Fatalf("date=%q, want pinned today", created.Date)
	}
}

func TestSpendCreateZeroAmountAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postJSON(t, srv, "/spend", `{"amount": 0, "description": "free sample"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for zero amount, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSpendDeleteIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postJSON(t, srv, "/spend", `{"amount": 12, "description": "book"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d", rr.Code)
	}
	var created expenseJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &created)

	del := func() map[string]bool {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/spend/%d", created.ID), nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("delete status=%d", rr.Code)
		}
		var out map[string]bool
		_ = json.Unmarshal(rr.Body.Bytes(), &out)
		return out
	}

	if out := del(); !out["removed"] {
		t.Fatalf("first delete: removed=%v", out["removed"])
	}
	if out := del(); out["removed"] {
		t.Fatalf("second delete should be a no-op, removed=%v", out["removed"])
	}

	// Non-numeric id
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/spend/abc", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rr.Code)
	}
}

func TestDashboardFigures(t *testing.T) {
	srv, store := newTestServer(t)

	// 300.00 spent out of 1000.00 with 10 days to the deadline.
	_, err := store.Append(context.Background(), core.NewExpense{
		Amount:      core.Money{Cents: 30_000},
		Description: "rent share",
		RecordedOn:  core.NewDate(2025, 2, 27),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}

	var out struct {
		Today      string  `json:"today"`
		TotalSpent float64 `json:"total_spent"`
		Remaining  float64 `json:"remaining"`
		DaysLeft   int     `json:"days_left"`
		DailyLimit float64 `json:"daily_limit"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	if out.Today != "2025-02-28" {
		t.Fatalf("today=%q", out.Today)
	}
	if out.TotalSpent != 300 || out.Remaining != 700 {
		t.Fatalf("spent=%v remaining=%v", out.TotalSpent, out.Remaining)
	}
	if out.DaysLeft != 10 {
		t.Fatalf("days_left=%d, want 10", out.DaysLeft)
	}
	if out.DailyLimit != 70 {
		t.Fatalf("daily_limit=%v, want 70", out.DailyLimit)
	}
}

func TestHistoryLimitAndOrder(t *testing.T) {
	srv, store := newTestServer(t)

	for i := 1; i <= 3; i++ {
		_, err := store.Append(context.Background(), core.NewExpense{
			Amount:      core.Money{Cents: int64(i) * 100},
			Description: fmt.Sprintf("item %d", i),
			RecordedOn:  core.NewDate(2025, 2, 27),
		})
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history?limit=2", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("history status=%d", rr.Code)
	}

	var out struct {
		Count   int           `json:"count"`
		History []expenseJSON `json:"history"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if out.Count != 2 || len(out.History) != 2 {
		t.Fatalf("count=%d len=%d, want 2", out.Count, len(out.History))
	}
	if out.History[0].Description != "item 3" {
		t.Fatalf("expected most recent first, got %q", out.History[0].Description)
	}
}

func TestUIAddAndDelete(t *testing.T) {
	srv, store := newTestServer(t)

	postForm := func(path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		srv.Handler.ServeHTTP(rr, req)
		return rr
	}

	// Invalid amount redirects back with an error marker
	rr := postForm("/ui/add", "amount=abc&description=x")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error") {
		t.Fatalf("expected error redirect, got %q", loc)
	}

	// Valid add
	rr = postForm("/ui/add", "amount=4,20&description=snack")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	records, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(records) != 1 || records[0].Amount.Cents != 420 {
		t.Fatalf("unexpected ledger state: %+v", records)
	}

	// Delete through the form endpoint
	rr = postForm(fmt.Sprintf("/ui/delete/%d", records[0].ID), "")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	records, _ = store.All(context.Background())
	if len(records) != 0 {
		t.Fatalf("expected empty ledger after delete, got %d", len(records))
	}
}
