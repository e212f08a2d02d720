package window

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Event types published by the manager
const (
	EventOpened    = "session.opened"
	EventActive    = "session.active"
	EventRaised    = "session.raised"
	EventMinimized = "session.minimized"
	EventMaximized = "session.maximized"
	EventClosed    = "session.closed"
	EventAborted   = "session.aborted"

	allEvents = "*"
)

// Event describes one session lifecycle change
type Event struct {
	Type      string             `json:"type"`
	SessionID id.SessionID       `json:"session_id"`
	App       types.AppIdentity  `json:"app"`
	State     types.SessionState `json:"state"`
	Geometry  types.Geometry     `json:"geometry"`
	Time      time.Time          `json:"time"`
}

// Handler receives published events. Handlers run on the manager's
// controller loop and must not call back into the Manager synchronously.
type Handler func(Event)

type subscription struct {
	id        uint64
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub bus for session events
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	nextID atomic.Uint64
	logger *zap.Logger
}

// NewBus creates an event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for one event type and returns a
// subscription ID for Unsubscribe
func (b *Bus) Subscribe(eventType string, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	sid := b.nextID.Add(1)
	b.subs[eventType] = append(b.subs[eventType], subscription{id: sid, eventType: eventType, handler: handler})
	return sid
}

// SubscribeAll registers handler for every event type
func (b *Bus) SubscribeAll(handler Handler) uint64 {
	return b.Subscribe(allEvents, handler)
}

// Unsubscribe removes a subscription; it reports whether one was found
func (b *Bus) Unsubscribe(subID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subs {
		for i, sub := range subs {
			if sub.id == subID {
				b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish delivers ev to the handlers of its type, then to wildcard
// handlers, each group in registration order. A panicking handler is
// logged and skipped.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	specific := append([]subscription(nil), b.subs[ev.Type]...)
	wildcard := append([]subscription(nil), b.subs[allEvents]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, ev)
	}
	for _, sub := range wildcard {
		b.safeCall(sub.handler, ev)
	}
}

func (b *Bus) safeCall(handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event", ev.Type),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	handler(ev)
}

// SubscriptionCount returns the number of active subscriptions
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.subs {
		n += len(subs)
	}
	return n
}
