package model

import (
	"github.com/shopspring/decimal"
)

// Priority ranks how much an owner values a subscription.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid checks whether the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Priorities lists the valid priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Status represents the lifecycle state of a subscription record.
//
// StatusPassive is the bootstrap sentinel written on an owner's first
// contact; it never applies to a real subscription and is never reachable
// again after creation. The only transition is active -> cancelled.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusPassive   Status = "passive"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPassive:
		return true
	}
	return false
}

// Cost bounds for a monthly subscription amount.
var (
	CostMin = decimal.Zero               // exclusive
	CostMax = decimal.NewFromInt(100000) // inclusive
)

// Subscription is one row in the ledger.
type Subscription struct {
	OwnerID    string          `json:"owner_id"`
	OwnerLabel string          `json:"owner_label,omitempty"`
	Name       string          `json:"name"`
	Cost       decimal.Decimal `json:"cost"`
	Priority   Priority        `json:"priority,omitempty"`
	Status     Status          `json:"status"`
}

// IsPlaceholder reports whether the record is the bootstrap sentinel row
// created on first contact. Placeholder rows carry no subscription data and
// are excluded from every listing and aggregate.
func (s *Subscription) IsPlaceholder() bool {
	return s.Name == ""
}

// Placeholder returns the bootstrap record for a new owner.
func Placeholder(ownerID, ownerLabel string) *Subscription {
	return &Subscription{
		OwnerID:    ownerID,
		OwnerLabel: ownerLabel,
		Status:     StatusPassive,
	}
}
