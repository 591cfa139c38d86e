// Package session holds per-owner conversation scratch state.
//
// A Context is created on an owner's first event and lives only in memory;
// a process restart mid-conversation forces the owner to restart the flow.
// The Manager evicts contexts idle past a threshold so stalled conversations
// do not accumulate (no backend resource is held by an idle session).
package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/ledger"
)

// State is the conversation position for one owner. Exactly one state is
// current at a time; the dialog engine switches on it exhaustively.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitName     State = "await_name"
	StateAwaitCost     State = "await_cost"
	StateAwaitPriority State = "await_priority"
	StateConfirmCancel State = "confirm_cancel"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid checks whether the state is a known value.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateAwaitName, StateAwaitCost, StateAwaitPriority, StateConfirmCancel:
		return true
	}
	return false
}

// PendingCancel is the record selected for cancellation, held between the
// candidate selection and the yes/no confirmation. The handle is the only
// update key; name and cost ride along for display.
type PendingCancel struct {
	Handle ledger.Handle
	Name   string
	Cost   decimal.Decimal
}

// Context is the mutable scratch space for one owner's conversation.
type Context struct {
	OwnerID string
	Label   string
	TraceID string

	State State

	// Add-flow scratch.
	PendingName string
	PendingCost decimal.Decimal

	// Confirm-cancel scratch.
	Pending *PendingCancel

	lastSeen time.Time
}

// Touch records activity, deferring idle eviction.
func (c *Context) Touch() {
	c.lastSeen = time.Now()
}

// ClearFlow discards all in-progress scratch and returns the context to idle.
// Called on terminal states and on fallback abandonment.
func (c *Context) ClearFlow() {
	c.State = StateIdle
	c.PendingName = ""
	c.PendingCost = decimal.Zero
	c.Pending = nil
}
