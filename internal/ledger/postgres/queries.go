package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cancelitnow/cancelbot/internal/ledger"
)

// columnNames maps ledger column indices to table column names. Column order
// here must match the ledger column constants exactly.
var columnNames = [ledger.NumColumns]string{
	"owner_id", "owner_label", "name", "cost", "priority", "status",
}

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryAppendRow(ctx context.Context, db executor, cells [ledger.NumColumns]string) (int, error) {
	var row int
	err := db.QueryRowContext(ctx, `
		INSERT INTO sheet_rows (owner_id, owner_label, name, cost, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING row_num`,
		cells[ledger.ColOwnerID],
		cells[ledger.ColOwnerLabel],
		cells[ledger.ColName],
		cells[ledger.ColCost],
		cells[ledger.ColPriority],
		cells[ledger.ColStatus],
	).Scan(&row)
	if err != nil {
		return 0, fmt.Errorf("%w: insert row: %v", ledger.ErrUnavailable, err)
	}
	return row, nil
}

func queryReadAllRows(ctx context.Context, db executor) ([][ledger.NumColumns]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT row_num, owner_id, owner_label, name, cost, priority, status
		FROM sheet_rows
		ORDER BY row_num`)
	if err != nil {
		return nil, fmt.Errorf("%w: select rows: %v", ledger.ErrUnavailable, err)
	}
	defer rows.Close()

	// Reconstruct the sheet shape: header first, then data rows at their
	// physical positions. row_num is gapless because rows are never deleted.
	out := [][ledger.NumColumns]string{ledger.Header}
	for rows.Next() {
		var (
			rowNum int
			cells  [ledger.NumColumns]string
		)
		if err := rows.Scan(&rowNum,
			&cells[ledger.ColOwnerID],
			&cells[ledger.ColOwnerLabel],
			&cells[ledger.ColName],
			&cells[ledger.ColCost],
			&cells[ledger.ColPriority],
			&cells[ledger.ColStatus],
		); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ledger.ErrUnavailable, err)
		}
		if rowNum != len(out)+1 {
			return nil, fmt.Errorf("ledger corrupt: row_num %d at position %d", rowNum, len(out)+1)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ledger.ErrUnavailable, err)
	}
	return out, nil
}

func queryUpdateCell(ctx context.Context, db executor, row, col int, value string) error {
	if row <= ledger.HeaderRow {
		return fmt.Errorf("row %d: %w", row, ledger.ErrInvalidHandle)
	}
	if col < 0 || col >= ledger.NumColumns {
		return fmt.Errorf("column %d out of range", col)
	}

	res, err := db.ExecContext(ctx,
		`UPDATE sheet_rows SET `+columnNames[col]+` = $1 WHERE row_num = $2`,
		value, row)
	if err != nil {
		return fmt.Errorf("%w: update cell: %v", ledger.ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ledger.ErrUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("row %d: %w", row, ledger.ErrInvalidHandle)
	}
	return nil
}
