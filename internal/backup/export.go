package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cancelitnow/cancelbot/internal/ledger"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RowCount  int       `json:"row_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data row    `json:"data"`
}

// row is one exported ledger row. The handle is included so a restore can
// verify positional integrity.
type row struct {
	Handle     int    `json:"handle"`
	OwnerID    string `json:"owner_id"`
	OwnerLabel string `json:"owner_label,omitempty"`
	Name       string `json:"name"`
	Cost       string `json:"cost"`
	Priority   string `json:"priority,omitempty"`
	Status     string `json:"status"`
}

// ExportJSONL writes every ledger row (placeholders included) as JSONL to w,
// in ledger order.
func ExportJSONL(ctx context.Context, s *ledger.Store, w io.Writer) error {
	entries, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan ledger: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		RowCount:  len(entries),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, e := range entries {
		// The cost cell goes out exactly as stored, parseable or not.
		r := record{Type: "subscription", Data: row{
			Handle:     int(e.Handle),
			OwnerID:    e.Record.OwnerID,
			OwnerLabel: e.Record.OwnerLabel,
			Name:       e.Record.Name,
			Cost:       e.RawCost,
			Priority:   e.Record.Priority.String(),
			Status:     e.Record.Status.String(),
		}}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode row %d: %w", e.Handle, err)
		}
	}

	return nil
}
