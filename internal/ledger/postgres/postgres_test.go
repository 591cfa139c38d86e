package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cancelitnow/cancelbot/internal/ledger"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var sheetColumns = []string{"row_num", "owner_id", "owner_label", "name", "cost", "priority", "status"}

func TestQueryAppendRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO sheet_rows").
		WithArgs("42", "ada", "Gym", "9.99", "Low", "active").
		WillReturnRows(sqlmock.NewRows([]string{"row_num"}).AddRow(2))

	row, err := queryAppendRow(context.Background(), db,
		[ledger.NumColumns]string{"42", "ada", "Gym", "9.99", "Low", "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row != 2 {
		t.Errorf("row = %d, want 2", row)
	}
}

func TestQueryAppendRowUnavailable(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO sheet_rows").
		WillReturnError(errors.New("connection refused"))

	_, err := queryAppendRow(context.Background(), db,
		[ledger.NumColumns]string{"42", "", "Gym", "9.99", "Low", "active"})
	if !errors.Is(err, ledger.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestQueryReadAllRows(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(sheetColumns).
		AddRow(2, "42", "ada", "", "", "", "passive").
		AddRow(3, "42", "ada", "Gym", "9.99", "Low", "active")
	mock.ExpectQuery("SELECT row_num, owner_id, owner_label, name, cost, priority, status").
		WillReturnRows(rows)

	out, err := queryReadAllRows(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 data)", len(out))
	}
	if out[0] != ledger.Header {
		t.Errorf("first row = %v, want header", out[0])
	}
	if out[2][ledger.ColName] != "Gym" || out[2][ledger.ColCost] != "9.99" {
		t.Errorf("data row = %v", out[2])
	}
}

func TestQueryReadAllRowsEmpty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT row_num, owner_id, owner_label, name, cost, priority, status").
		WillReturnRows(sqlmock.NewRows(sheetColumns))

	out, err := queryReadAllRows(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want header only", len(out))
	}
}

func TestQueryReadAllRowsGapIsCorrupt(t *testing.T) {
	db, mock := newMockDB(t)

	// row_num jumps from 2 to 4: a row disappeared, which the append-only
	// contract forbids.
	rows := sqlmock.NewRows(sheetColumns).
		AddRow(2, "42", "", "Gym", "9.99", "Low", "active").
		AddRow(4, "42", "", "Video", "15.00", "High", "active")
	mock.ExpectQuery("SELECT row_num, owner_id, owner_label, name, cost, priority, status").
		WillReturnRows(rows)

	_, err := queryReadAllRows(context.Background(), db)
	if err == nil {
		t.Fatal("expected corruption error, got nil")
	}
}

func TestQueryUpdateCell(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE sheet_rows SET status = \\$1 WHERE row_num = \\$2").
		WithArgs("cancelled", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryUpdateCell(context.Background(), db, 3, ledger.ColStatus, "cancelled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryUpdateCellMissingRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE sheet_rows SET status = \\$1 WHERE row_num = \\$2").
		WithArgs("cancelled", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := queryUpdateCell(context.Background(), db, 99, ledger.ColStatus, "cancelled")
	if !errors.Is(err, ledger.ErrInvalidHandle) {
		t.Errorf("err = %v, want ErrInvalidHandle", err)
	}
}

func TestQueryUpdateCellRejectsHeaderRow(t *testing.T) {
	db, _ := newMockDB(t)

	err := queryUpdateCell(context.Background(), db, 1, ledger.ColStatus, "cancelled")
	if !errors.Is(err, ledger.ErrInvalidHandle) {
		t.Errorf("err = %v, want ErrInvalidHandle", err)
	}
}

func TestQueryUpdateCellRejectsBadColumn(t *testing.T) {
	db, _ := newMockDB(t)

	if err := queryUpdateCell(context.Background(), db, 2, 17, "x"); err == nil {
		t.Error("expected error for out-of-range column")
	}
}

func TestQueryUpdateCellUnavailable(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE sheet_rows SET cost = \\$1 WHERE row_num = \\$2").
		WithArgs("5.00", 2).
		WillReturnError(errors.New("server closed the connection"))

	err := queryUpdateCell(context.Background(), db, 2, ledger.ColCost, "5.00")
	if !errors.Is(err, ledger.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
