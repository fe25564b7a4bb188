// -----------------------------------------------------------------------------
// Event System - Core Interfaces
// -----------------------------------------------------------------------------
// An Event is something that already happened in the system, e.g. a purchase
// that went through. Listeners react to events without the producer knowing
// about them: the purchase pipeline announces its outcome, and publishers,
// audit trails or metrics hook in from the outside.
// -----------------------------------------------------------------------------

package events

import (
	"time"
)

// Event is implemented by everything that can be dispatched.
type Event interface {
	// Name is the unique event name, e.g. "purchase.completed".
	Name() string

	// OccurredAt is when the event happened.
	OccurredAt() time.Time

	// Payload is the data carried by the event.
	Payload() interface{}
}

// BaseEvent is a ready-made Event. Embed it or build one with NewBaseEvent.
type BaseEvent struct {
	name       string
	occurredAt time.Time
	payload    interface{}
}

// NewBaseEvent creates an event stamped with the current time.
func NewBaseEvent(name string, payload interface{}) *BaseEvent {
	return &BaseEvent{
		name:       name,
		occurredAt: time.Now(),
		payload:    payload,
	}
}

func (e *BaseEvent) Name() string {
	return e.name
}

func (e *BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *BaseEvent) Payload() interface{} {
	return e.payload
}

// Purchase lifecycle events.
const (
	EventPurchaseCompleted = "purchase.completed"
	EventPurchaseFailed    = "purchase.failed"
)

func NewPurchaseCompletedEvent(purchase interface{}) Event {
	return NewBaseEvent(EventPurchaseCompleted, purchase)
}

func NewPurchaseFailedEvent(failure interface{}) Event {
	return NewBaseEvent(EventPurchaseFailed, failure)
}
