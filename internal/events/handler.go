// internal/events/handler.go
package events

import (
	"context"
)

// Handler processes one event. Handlers run on the bus goroutine one at a
// time, so a slow handler delays every later event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Subscriber registers handlers. The UI and the snapshot recorder depend on
// this rather than on *Bus.
type Subscriber interface {
	Subscribe(eventType EventType, handler Handler) Subscription
}

// Subscription represents a subscription to events.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	id       string
	eventBus *Bus
	typ      EventType
}

func (s *subscription) Unsubscribe() {
	s.eventBus.unsubscribe(s.id, s.typ)
}

// SubscribeAll registers handler for every listed type and returns one
// subscription that removes them all.
func SubscribeAll(s Subscriber, handler Handler, types ...EventType) Subscription {
	subs := make(multiSubscription, 0, len(types))
	for _, t := range types {
		subs = append(subs, s.Subscribe(t, handler))
	}
	return subs
}

type multiSubscription []Subscription

func (m multiSubscription) Unsubscribe() {
	for _, s := range m {
		s.Unsubscribe()
	}
}

var _ Subscriber = (*Bus)(nil)
