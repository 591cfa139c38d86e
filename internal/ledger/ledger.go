// Package ledger is the append-only record store for subscription rows.
//
// Records are addressed by a Handle: the physical row number assigned at
// append time. Handles never change for the life of a record because the
// backend never deletes or reorders rows; status transitions are in-place
// single-cell overwrites. This is what lets a handle captured during one
// conversation turn be replayed safely as an update target on a later turn.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/model"
)

var (
	// ErrUnavailable indicates the backend could not be reached. The
	// operation may or may not have taken effect; callers must not assume
	// success and may retry.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrInvalidHandle indicates an update target that does not correspond
	// to any record. Under the handle-stability invariant this should not
	// occur, but it is always checked.
	ErrInvalidHandle = errors.New("invalid handle")
)

// Handle is the stable positional address of a record, minted at append time.
// The header occupies row 1, so the first record's handle is 2.
type Handle int

// IsValid reports whether the handle could address a record row.
func (h Handle) IsValid() bool {
	return int(h) > HeaderRow
}

// Entry pairs a scanned record with its handle.
type Entry struct {
	Handle Handle
	Record model.Subscription

	// RawCost is the cost cell exactly as stored, kept so exports stay
	// lossless even when the cell does not parse.
	RawCost string

	// CostOK is false when the stored cost cell failed to parse as a
	// decimal. Such rows are kept in listings but excluded from sums.
	CostOK bool
}

// Store exposes record-level operations over a RowBackend.
type Store struct {
	backend RowBackend
}

// NewStore wraps a RowBackend.
func NewStore(b RowBackend) *Store {
	return &Store{backend: b}
}

// Append adds a record as the last row and returns its handle.
func (s *Store) Append(ctx context.Context, rec *model.Subscription) (Handle, error) {
	if err := model.ValidateSubscription(rec); err != nil {
		return 0, err
	}
	row, err := s.backend.AppendRow(ctx, recordCells(rec))
	if err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	return Handle(row), nil
}

// Bootstrap appends the passive placeholder row for an owner's first contact.
func (s *Store) Bootstrap(ctx context.Context, ownerID, ownerLabel string) (Handle, error) {
	return s.Append(ctx, model.Placeholder(ownerID, ownerLabel))
}

// ScanByOwner reads the whole ledger and returns the rows belonging to one
// owner, in ledger order, placeholder rows included. The backend has no owner
// index, so this is O(total rows). An owner with no rows yields an empty
// slice, not an error.
func (s *Store) ScanByOwner(ctx context.Context, ownerID string) ([]Entry, error) {
	all, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.Record.OwnerID == ownerID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Scan reads every record row in the ledger, in order.
func (s *Store) Scan(ctx context.Context) ([]Entry, error) {
	rows, err := s.backend.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for i, cells := range rows {
		row := i + 1
		if row == HeaderRow {
			continue
		}
		entries = append(entries, entryFromCells(Handle(row), cells))
	}
	return entries, nil
}

// UpdateStatus overwrites the status cell of the record at handle. This is
// the only mutation the system performs after append.
func (s *Store) UpdateStatus(ctx context.Context, h Handle, status model.Status) error {
	if !h.IsValid() {
		return fmt.Errorf("update status of row %d: %w", h, ErrInvalidHandle)
	}
	if !status.IsValid() {
		return fmt.Errorf("update status: invalid status %q", status)
	}
	if err := s.backend.UpdateCell(ctx, int(h), ColStatus, status.String()); err != nil {
		return fmt.Errorf("update status of row %d: %w", h, err)
	}
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func recordCells(rec *model.Subscription) [NumColumns]string {
	cost := ""
	if !rec.IsPlaceholder() {
		cost = rec.Cost.String()
	}
	return [NumColumns]string{
		ColOwnerID:    rec.OwnerID,
		ColOwnerLabel: rec.OwnerLabel,
		ColName:       rec.Name,
		ColCost:       cost,
		ColPriority:   rec.Priority.String(),
		ColStatus:     rec.Status.String(),
	}
}

// entryFromCells converts a raw row back into an Entry. Stored cells are
// untrusted text; a malformed cost marks the entry rather than failing the
// whole scan.
func entryFromCells(h Handle, cells [NumColumns]string) Entry {
	e := Entry{
		Handle:  h,
		RawCost: cells[ColCost],
		Record: model.Subscription{
			OwnerID:    cells[ColOwnerID],
			OwnerLabel: cells[ColOwnerLabel],
			Name:       cells[ColName],
			Priority:   model.Priority(cells[ColPriority]),
			Status:     model.Status(cells[ColStatus]),
		},
	}
	if cells[ColCost] != "" {
		if d, err := decimal.NewFromString(cells[ColCost]); err == nil {
			e.Record.Cost = d
			e.CostOK = true
		}
	}
	return e
}
