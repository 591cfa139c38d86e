package agg

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/model"
)

func entry(name, cost string, p model.Priority, s model.Status) ledger.Entry {
	e := ledger.Entry{
		Record: model.Subscription{
			OwnerID:  "42",
			Name:     name,
			Priority: p,
			Status:   s,
		},
	}
	if cost != "" {
		if d, err := decimal.NewFromString(cost); err == nil {
			e.Record.Cost = d
			e.CostOK = true
		}
	}
	return e
}

func TestFilterReal(t *testing.T) {
	entries := []ledger.Entry{
		{Record: model.Subscription{OwnerID: "42", Status: model.StatusPassive}},
		entry("Gym", "9.99", model.PriorityLow, model.StatusActive),
	}
	real := FilterReal(entries)
	if len(real) != 1 || real[0].Record.Name != "Gym" {
		t.Errorf("FilterReal = %v", real)
	}
}

func TestPartition(t *testing.T) {
	entries := []ledger.Entry{
		entry("Gym", "9.99", model.PriorityLow, model.StatusActive),
		entry("Video", "15.00", model.PriorityHigh, model.StatusCancelled),
		entry("News", "4.50", model.PriorityMedium, model.StatusActive),
	}
	active, cancelled := Partition(entries)
	if len(active) != 2 || len(cancelled) != 1 {
		t.Fatalf("active=%d cancelled=%d, want 2/1", len(active), len(cancelled))
	}
	if cancelled[0].Record.Name != "Video" {
		t.Errorf("cancelled[0] = %q", cancelled[0].Record.Name)
	}
	// Input order preserved within each partition.
	if active[0].Record.Name != "Gym" || active[1].Record.Name != "News" {
		t.Errorf("active order = %q, %q", active[0].Record.Name, active[1].Record.Name)
	}
}

func TestTotalsOf(t *testing.T) {
	active := []ledger.Entry{
		entry("Gym", "9.99", model.PriorityLow, model.StatusActive),
		entry("News", "4.50", model.PriorityMedium, model.StatusActive),
	}
	tot := TotalsOf(active)
	if tot.Count != 2 {
		t.Errorf("Count = %d, want 2", tot.Count)
	}
	if tot.Monthly.String() != "14.49" {
		t.Errorf("Monthly = %s, want 14.49", tot.Monthly)
	}
	if !tot.Yearly.Equal(tot.Monthly.Mul(decimal.NewFromInt(12))) {
		t.Errorf("Yearly = %s, want exactly 12x monthly", tot.Yearly)
	}
	if tot.Yearly.String() != "173.88" {
		t.Errorf("Yearly = %s, want 173.88", tot.Yearly)
	}
}

func TestTotalsOfEmpty(t *testing.T) {
	tot := TotalsOf(nil)
	if tot.Count != 0 || !tot.Monthly.IsZero() || !tot.Yearly.IsZero() {
		t.Errorf("empty totals = %+v", tot)
	}
}

func TestTotalsOfSkipsMalformedCost(t *testing.T) {
	active := []ledger.Entry{
		entry("Gym", "9.99", model.PriorityLow, model.StatusActive),
		entry("Mystery", "", model.PriorityLow, model.StatusActive), // cost never parsed
	}
	tot := TotalsOf(active)
	if tot.Count != 2 {
		t.Errorf("Count = %d, want 2 (listing still includes the row)", tot.Count)
	}
	if tot.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", tot.Skipped)
	}
	if tot.Monthly.String() != "9.99" {
		t.Errorf("Monthly = %s, want 9.99", tot.Monthly)
	}
}

func TestPriorityBreakdown(t *testing.T) {
	active := []ledger.Entry{
		entry("A", "1", model.PriorityHigh, model.StatusActive),
		entry("B", "1", model.PriorityHigh, model.StatusActive),
		entry("C", "1", model.PriorityMedium, model.StatusActive),
		entry("D", "1", model.PriorityLow, model.StatusActive),
		entry("E", "1", "Weird", model.StatusActive),
	}
	b := PriorityBreakdown(active)
	if b.High != 2 || b.Medium != 1 || b.Low != 1 {
		t.Errorf("breakdown = %+v", b)
	}
}

func TestSavingsOf(t *testing.T) {
	cancelled := []ledger.Entry{
		entry("Video", "15.00", model.PriorityHigh, model.StatusCancelled),
	}
	s := SavingsOf(cancelled)
	if s.Count != 1 {
		t.Errorf("Count = %d, want 1", s.Count)
	}
	if s.Monthly.String() != "15" {
		t.Errorf("Monthly = %s, want 15", s.Monthly)
	}
	if s.Yearly.String() != "180" {
		t.Errorf("Yearly = %s, want 180", s.Yearly)
	}
}

// The end-to-end scenario from the dialog's point of view: add Gym and Video,
// cancel Video, and check what each report would show.
func TestScenarioGymVideo(t *testing.T) {
	entries := []ledger.Entry{
		entry("Gym", "9.99", model.PriorityLow, model.StatusActive),
		entry("Video", "15.00", model.PriorityHigh, model.StatusCancelled),
	}
	active, cancelled := Partition(FilterReal(entries))
	if len(active) != 1 || active[0].Record.Name != "Gym" {
		t.Errorf("active = %v", active)
	}
	if len(cancelled) != 1 || cancelled[0].Record.Name != "Video" {
		t.Errorf("cancelled = %v", cancelled)
	}
	s := SavingsOf(cancelled)
	if s.Monthly.String() != "15" || s.Yearly.String() != "180" {
		t.Errorf("savings = %s/mo %s/yr", s.Monthly, s.Yearly)
	}
}
