package ledger

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend is an in-memory RowBackend with exact sheet semantics,
// header row included. Used by tests and local development.
type MemoryBackend struct {
	mu   sync.Mutex
	rows [][NumColumns]string
}

// Compile-time check that MemoryBackend implements RowBackend.
var _ RowBackend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty backend holding only the header row.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{rows: [][NumColumns]string{Header}}
}

func (m *MemoryBackend) AppendRow(ctx context.Context, cells [NumColumns]string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, cells)
	return len(m.rows), nil
}

func (m *MemoryBackend) ReadAllRows(ctx context.Context) ([][NumColumns]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][NumColumns]string, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *MemoryBackend) UpdateCell(ctx context.Context, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row <= HeaderRow || row > len(m.rows) {
		return fmt.Errorf("row %d: %w", row, ErrInvalidHandle)
	}
	if col < 0 || col >= NumColumns {
		return fmt.Errorf("column %d out of range", col)
	}
	m.rows[row-1][col] = value
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
