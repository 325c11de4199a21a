// internal/events/types.go
package events

import (
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	PresaleSnapshot EventType = "snapshot.presale"
	StakingSnapshot EventType = "snapshot.staking"

	PriceUpdated EventType = "price.updated"

	// Action events carry the outcome of a single write transaction.
	ActionSucceeded EventType = "action.succeeded"
	ActionFailed    EventType = "action.failed"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

// NewBase stamps an event of type t at now.
func NewBase(t EventType, now time.Time) BaseEvent {
	return BaseEvent{EventType: t, EventTime: now}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// PriceUpdatedEvent is emitted after every poll, including polls that served a stale price.
type PriceUpdatedEvent struct {
	BaseEvent
	Source string
	Price  float64
	Stale  bool
}

// SnapshotEvent carries a refreshed read model. Payload is a presale.Snapshot
// or a staking.Position depending on the type.
type SnapshotEvent struct {
	BaseEvent
	Seq     uint64
	Payload interface{}
}

// ActionEvent is the notification raised after a write action.
type ActionEvent struct {
	BaseEvent
	Action string
	TxHash string
	Err    error
}

// Message renders the user-facing notification text.
func (e ActionEvent) Message() string {
	if e.Err != nil {
		return e.Action + " failed: " + e.Err.Error()
	}
	if e.TxHash == "" {
		return e.Action + " succeeded"
	}
	return e.Action + " succeeded (" + e.TxHash + ")"
}
