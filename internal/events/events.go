package events

import "context"

// Event topic constants
const (
	// TopicOwnerRegistered fires once per owner, on first contact, when the
	// passive bootstrap row is written.
	TopicOwnerRegistered = "subs.owner.registered"

	TopicRecordAppended  = "subs.record.appended"
	TopicRecordCancelled = "subs.record.cancelled"
)

// Event types

type OwnerRegistered struct {
	OwnerID    string `json:"owner_id"`
	OwnerLabel string `json:"owner_label,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
}

type RecordAppended struct {
	OwnerID  string `json:"owner_id"`
	Handle   int    `json:"handle"`
	Name     string `json:"name"`
	Cost     string `json:"cost"`
	Priority string `json:"priority"`
	TraceID  string `json:"trace_id,omitempty"`
}

type RecordCancelled struct {
	OwnerID      string `json:"owner_id"`
	Handle       int    `json:"handle"`
	Name         string `json:"name"`
	MonthlySaved string `json:"monthly_saved"`
	YearlySaved  string `json:"yearly_saved"`
	TraceID      string `json:"trace_id,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
