package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(NewMemoryBackend())
	t.Cleanup(func() { s.Close() })
	return s
}

func sub(owner, name, cost string, p model.Priority) *model.Subscription {
	return &model.Subscription{
		OwnerID:  owner,
		Name:     name,
		Cost:     decimal.RequireFromString(cost),
		Priority: p,
		Status:   model.StatusActive,
	}
}

func TestAppendAssignsSequentialHandles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h1, err := s.Append(ctx, sub("42", "Gym", "9.99", model.PriorityLow))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	h2, err := s.Append(ctx, sub("42", "Video", "15.00", model.PriorityHigh))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	// Header is row 1, so the first record lands on row 2.
	if h1 != 2 || h2 != 3 {
		t.Errorf("handles = %d, %d; want 2, 3", h1, h2)
	}
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	s := newTestStore(t)
	bad := sub("42", "Gym", "9.99", model.PriorityLow)
	bad.Cost = decimal.Zero
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatal("zero-cost record accepted")
	}
}

func TestScanByOwnerScopesAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Bootstrap(ctx, "42", "ada"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Append(ctx, sub("42", "Gym", "9.99", model.PriorityLow))
	s.Append(ctx, sub("7", "News", "4.50", model.PriorityMedium))
	s.Append(ctx, sub("42", "Video", "15.00", model.PriorityHigh))

	entries, err := s.ScanByOwner(ctx, "42")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (placeholder included)", len(entries))
	}
	if !entries[0].Record.IsPlaceholder() {
		t.Error("first entry should be the bootstrap placeholder")
	}
	if entries[1].Record.Name != "Gym" || entries[2].Record.Name != "Video" {
		t.Errorf("ledger order lost: %q, %q", entries[1].Record.Name, entries[2].Record.Name)
	}
	for _, e := range entries {
		if e.Record.OwnerID != "42" {
			t.Errorf("foreign record leaked: %+v", e.Record)
		}
	}
}

func TestScanByOwnerEmpty(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.ScanByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h, err := s.Append(ctx, sub("42", "Video", "15.00", model.PriorityHigh))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.UpdateStatus(ctx, h, model.StatusCancelled); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := s.ScanByOwner(ctx, "42")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if entries[0].Record.Status != model.StatusCancelled {
		t.Errorf("status = %q, want cancelled", entries[0].Record.Status)
	}
	// Only the status cell changed.
	if entries[0].Record.Name != "Video" || entries[0].Record.Cost.String() != "15" {
		t.Errorf("unrelated fields changed: %+v", entries[0].Record)
	}
}

func TestUpdateStatusInvalidHandle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, h := range []Handle{0, 1, 99} {
		err := s.UpdateStatus(ctx, h, model.StatusCancelled)
		if !errors.Is(err, ErrInvalidHandle) {
			t.Errorf("handle %d: err = %v, want ErrInvalidHandle", h, err)
		}
	}
}

func TestHandleStableAcrossUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hA, _ := s.Append(ctx, sub("42", "Gym", "9.99", model.PriorityLow))
	hB, _ := s.Append(ctx, sub("42", "Video", "15.00", model.PriorityHigh))

	if err := s.UpdateStatus(ctx, hA, model.StatusCancelled); err != nil {
		t.Fatalf("update: %v", err)
	}

	// B's handle still addresses B after A's mutation.
	entries, _ := s.ScanByOwner(ctx, "42")
	for _, e := range entries {
		if e.Handle == hB && e.Record.Name != "Video" {
			t.Errorf("handle %d now addresses %q", hB, e.Record.Name)
		}
	}
}

func TestScanMarksMalformedCost(t *testing.T) {
	b := NewMemoryBackend()
	s := NewStore(b)
	ctx := context.Background()

	// A historical row with a non-numeric cost cell, written by some other
	// client of the shared ledger.
	b.AppendRow(ctx, [NumColumns]string{"42", "", "Mystery", "ten", "Low", "active"})
	s.Append(ctx, sub("42", "Gym", "9.99", model.PriorityLow))

	entries, err := s.ScanByOwner(ctx, "42")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].CostOK {
		t.Error("malformed cost should clear CostOK")
	}
	if entries[0].RawCost != "ten" {
		t.Errorf("RawCost = %q, want the stored cell verbatim", entries[0].RawCost)
	}
	if !entries[1].CostOK {
		t.Error("valid cost should set CostOK")
	}
	if entries[1].RawCost != "9.99" {
		t.Errorf("RawCost = %q, want %q", entries[1].RawCost, "9.99")
	}
}

func TestScanIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Append(ctx, sub("42", "Gym", "9.99", model.PriorityLow))

	first, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	second, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("scan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Handle != b.Handle || a.Record.Name != b.Record.Name ||
			!a.Record.Cost.Equal(b.Record.Cost) || a.Record.Status != b.Record.Status {
			t.Errorf("entry %d differs between scans", i)
		}
	}
}
