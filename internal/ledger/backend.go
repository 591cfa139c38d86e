package ledger

import "context"

// Column positions in the backing sheet. Every backend stores records as rows
// with exactly these columns, in this order, one logical record per row.
const (
	ColOwnerID = iota
	ColOwnerLabel
	ColName
	ColCost
	ColPriority
	ColStatus

	NumColumns = 6
)

// HeaderRow is the reserved first row naming the columns.
const HeaderRow = 1

// Header is the content of the reserved first row.
var Header = [NumColumns]string{"owner_id", "owner_label", "name", "cost", "priority", "status"}

// RowBackend is the raw ledger protocol: append a row, read every row, or
// overwrite a single cell addressed by position. The backend offers no
// transactions, no secondary indices, and no delete; rows are never reordered,
// so a row number stays valid for the life of the row.
type RowBackend interface {
	// AppendRow adds cells as the last row and returns its row number.
	// Row numbers are 1-based and include the header row.
	AppendRow(ctx context.Context, cells [NumColumns]string) (int, error)

	// ReadAllRows returns every row including the header, in ledger order.
	ReadAllRows(ctx context.Context) ([][NumColumns]string, error)

	// UpdateCell overwrites one cell in place. The header row is not a valid
	// target.
	UpdateCell(ctx context.Context, row, col int, value string) error

	// Close releases backend resources.
	Close() error
}
