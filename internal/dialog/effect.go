package dialog

import (
	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/agg"
	"github.com/cancelitnow/cancelbot/internal/model"
)

// Effect is one outbound instruction for the transport. The engine never
// talks to the wire itself; it returns effects and the transport renders
// them however its medium allows.
type Effect interface {
	isEffect()
}

// Choice is one selectable option attached to a prompt.
type Choice struct {
	ID    string
	Label string
}

// Prompt is a text message, optionally with rows of choices.
type Prompt struct {
	Text    string
	Choices [][]Choice
}

// Item is one subscription line in a listing.
type Item struct {
	Name     string
	Cost     decimal.Decimal
	CostOK   bool
	Priority model.Priority
	Status   model.Status
}

// Listing reports an owner's subscriptions split by lifecycle status.
type Listing struct {
	Active    []Item
	Cancelled []Item
	Savings   agg.Savings
}

// Snapshot reports an owner's spending totals, priority breakdown, and
// accumulated savings.
type Snapshot struct {
	Totals    agg.Totals
	Breakdown agg.Breakdown
	Savings   agg.Savings
}

// CancelReceipt reports a completed cancellation and the money freed up.
type CancelReceipt struct {
	Name         string
	MonthlySaved decimal.Decimal
	YearlySaved  decimal.Decimal
}

func (Prompt) isEffect()        {}
func (Listing) isEffect()       {}
func (Snapshot) isEffect()      {}
func (CancelReceipt) isEffect() {}
