// Package pubsub provides the in-process event channels for trove: a
// synchronous named Bus used for entity lifecycle and UI events, and a
// generic channel-based Broker for streaming consumers.
package pubsub

import (
	"context"
	"time"
)

// EventName identifies a bus topic.
type EventName string

const (
	EntityCreated EventName = "entity:created"
	EntityUpdated EventName = "entity:updated"
	EntityDeleted EventName = "entity:deleted"
	ModalOpen     EventName = "modal:open"
	ModalClose    EventName = "modal:close"
	ModalEdit     EventName = "modal:edit"
	ToastShow     EventName = "toast:show"

	// Broker-only stream names.
	LogEntry  EventName = "log:entry"
	DBChanged EventName = "db:changed"
)

// EntityEvent is the payload carried by entity lifecycle events.
type EntityEvent struct {
	Type   string         // registered entity type name
	ID     string         // record id
	URN    string         // "type:id"
	Fields map[string]any // the field set the triggering command supplied
	Actor  string         // provenance actor from the command
}

// ToastEvent is the payload for toast:show notifications.
type ToastEvent struct {
	Message string
	IsError bool
}

// Event wraps a payload published on a Broker stream.
type Event[T any] struct {
	Name      EventName
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for broker events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(name EventName, payload T)
}
