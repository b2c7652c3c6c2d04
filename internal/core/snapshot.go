package core

import "math"

// Snapshot is the derived set of budget figures for a given day. It is
// computed on demand and never persisted.
type Snapshot struct {
	Today      Date
	TotalSpent Money
	Remaining  Money
	DaysLeft   int
	// DailyLimit is the recommended spend for today in currency units, kept
	// at full precision. Round only when rendering.
	DailyLimit float64
}

// ComputeSnapshot derives the dashboard figures from the ledger contents,
// the current date and the budget constants. It is a pure function: no
// hidden state, no I/O, deterministic for equal inputs, and total over any
// finite set of records and any pair of dates.
func ComputeSnapshot(cfg BudgetConfig, records []ExpenseRecord, today Date) Snapshot {
	var spent Money
	for _, r := range records {
		spent = spent.Add(r.Amount)
	}

	remaining := cfg.StartBudget.Sub(spent)
	daysLeft := today.DaysUntil(cfg.Deadline)

	// Spread the remainder evenly over the days left. On or past the
	// deadline there is no future day to spread over, so the whole remainder
	// becomes today's allowance. Overspent ledgers make both figures
	// negative, which is a meaningful signal rather than an error.
	var limit float64
	if daysLeft > 0 {
		limit = remaining.Units() / float64(daysLeft)
	} else {
		limit = remaining.Units()
	}

	return Snapshot{
		Today:      today,
		TotalSpent: spent,
		Remaining:  remaining,
		DaysLeft:   daysLeft,
		DailyLimit: limit,
	}
}

// Round2 rounds a currency value to two decimals. This belongs at the
// presentation boundary only; snapshot arithmetic stays at full precision so
// repeated recomputation cannot accumulate drift.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
