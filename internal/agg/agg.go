// Package agg computes reporting aggregates over a scanned owner record set.
// Every function is pure and total: no I/O, no mutation of its input, no
// failure mode. Rows whose stored cost failed to parse are excluded from sums
// and counted in Skipped instead of aborting the report.
package agg

import (
	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/model"
)

var twelve = decimal.NewFromInt(12)

// Totals summarizes an owner's active subscriptions.
type Totals struct {
	Count   int
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
	Skipped int // rows excluded because the stored cost did not parse
}

// Breakdown counts active subscriptions per priority.
type Breakdown struct {
	High   int
	Medium int
	Low    int
}

// Savings summarizes what an owner stopped paying for.
type Savings struct {
	Count   int
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
	Skipped int
}

// FilterReal drops placeholder rows. Every other function in this package
// expects its input to have gone through this first.
func FilterReal(entries []ledger.Entry) []ledger.Entry {
	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Record.IsPlaceholder() {
			out = append(out, e)
		}
	}
	return out
}

// Partition splits records by lifecycle status. Every listing, cancellation
// offer, and aggregate in the system derives from this one split.
func Partition(entries []ledger.Entry) (active, cancelled []ledger.Entry) {
	for _, e := range entries {
		switch e.Record.Status {
		case model.StatusActive:
			active = append(active, e)
		case model.StatusCancelled:
			cancelled = append(cancelled, e)
		}
	}
	return active, cancelled
}

// TotalsOf sums the monthly costs of active records. Yearly is exactly
// twelve times the monthly sum.
func TotalsOf(active []ledger.Entry) Totals {
	t := Totals{Count: len(active)}
	monthly := decimal.Zero
	for _, e := range active {
		if !e.CostOK {
			t.Skipped++
			continue
		}
		monthly = monthly.Add(e.Record.Cost)
	}
	t.Monthly = monthly
	t.Yearly = monthly.Mul(twelve)
	return t
}

// PriorityBreakdown counts active records per priority. Records with an
// unrecognized priority cell are not counted anywhere.
func PriorityBreakdown(active []ledger.Entry) Breakdown {
	var b Breakdown
	for _, e := range active {
		switch e.Record.Priority {
		case model.PriorityHigh:
			b.High++
		case model.PriorityMedium:
			b.Medium++
		case model.PriorityLow:
			b.Low++
		}
	}
	return b
}

// SavingsOf sums the monthly costs of cancelled records.
func SavingsOf(cancelled []ledger.Entry) Savings {
	s := Savings{Count: len(cancelled)}
	monthly := decimal.Zero
	for _, e := range cancelled {
		if !e.CostOK {
			s.Skipped++
			continue
		}
		monthly = monthly.Add(e.Record.Cost)
	}
	s.Monthly = monthly
	s.Yearly = monthly.Mul(twelve)
	return s
}
