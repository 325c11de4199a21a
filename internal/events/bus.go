// internal/events/bus.go
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBusClosed  = errors.New("event bus is shutting down")
	ErrBufferFull = errors.New("event channel full")
)

const defaultBufferSize = 64

// Publisher is the sending side of the bus. Services depend on it instead of *Bus.
type Publisher interface {
	Publish(event Event) error
}

type registration struct {
	id      string
	handler Handler
}

// Bus is an in-memory event bus. Publish is asynchronous and never blocks:
// when the queue is full the event is dropped. Handlers of one type run in
// subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]registration
	logger   *zap.Logger

	queue    chan Event
	closing  chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	dropped atomic.Uint64
}

func NewBus(logger *zap.Logger, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	b := &Bus{
		handlers: make(map[EventType][]registration),
		logger:   logger.Named("event_bus"),
		queue:    make(chan Event, bufferSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b
}

// Subscribe registers handler for one event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) Subscription {
	id := uuid.New().String()

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})
	b.mu.Unlock()

	b.logger.Debug("Handler subscribed",
		zap.String("event_type", string(eventType)),
		zap.String("subscription_id", id))
	return &subscription{id: id, eventBus: b, typ: eventType}
}

func (b *Bus) SubscribeFunc(eventType EventType, fn func(context.Context, Event) error) Subscription {
	return b.Subscribe(eventType, HandlerFunc(fn))
}

// Publish queues event for delivery on the bus goroutine.
func (b *Bus) Publish(event Event) error {
	if b.isClosing() {
		return ErrBusClosed
	}
	select {
	case b.queue <- event:
		return nil
	default:
		b.dropped.Add(1)
		b.logger.Warn("Event queue full, dropping event", zap.String("event_type", string(event.Type())))
		return ErrBufferFull
	}
}

// PublishSync delivers event on the calling goroutine and joins handler errors.
func (b *Bus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, reg := range b.registrations(event.Type()) {
		if err := reg.handler.Handle(ctx, event); err != nil {
			b.logger.Error("Handler error",
				zap.String("event_type", string(event.Type())),
				zap.String("subscription_id", reg.id),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d handlers failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// registrations copies the handler list so delivery runs without the lock.
func (b *Bus) registrations(eventType EventType) []registration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]registration(nil), b.handlers[eventType]...)
}

func (b *Bus) isClosing() bool {
	select {
	case <-b.closing:
		return true
	default:
		return false
	}
}

func (b *Bus) loop() {
	defer close(b.done)
	ctx := context.Background()

	for {
		select {
		case event := <-b.queue:
			b.deliver(ctx, event)
		case <-b.closing:
			// Events queued before Shutdown are still delivered.
			for {
				select {
				case event := <-b.queue:
					b.deliver(ctx, event)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(ctx context.Context, event Event) {
	if err := b.PublishSync(ctx, event); err != nil {
		b.logger.Debug("Event delivered with errors",
			zap.String("event_type", string(event.Type())),
			zap.Error(err))
	}
}

func (b *Bus) unsubscribe(id string, eventType EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, reg := range regs {
		if reg.id == id {
			regs = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(regs) == 0 {
		delete(b.handlers, eventType)
	} else {
		b.handlers[eventType] = regs
	}
}

// Shutdown rejects new events and waits until the queue is drained or ctx
// expires. Calling it again only waits.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.stopOnce.Do(func() {
		b.logger.Debug("Shutting down event bus", zap.Int("pending", len(b.queue)))
		close(b.closing)
	})

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus shutdown timed out", zap.Int("pending", len(b.queue)))
		return ctx.Err()
	}
}

// Stats is a point-in-time view of the bus.
type Stats struct {
	BufferSize      int
	PendingEvents   int
	Dropped         uint64
	HandlersPerType map[EventType]int
}

func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Stats{
		BufferSize:      cap(b.queue),
		PendingEvents:   len(b.queue),
		Dropped:         b.dropped.Load(),
		HandlersPerType: make(map[EventType]int, len(b.handlers)),
	}
	for eventType, regs := range b.handlers {
		s.HandlersPerType[eventType] = len(regs)
	}
	return s
}

var _ Publisher = (*Bus)(nil)

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) error { return nil }
