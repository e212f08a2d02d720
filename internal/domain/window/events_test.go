package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestBusDispatchOrder(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))
	var got []string

	bus.SubscribeAll(func(ev Event) { got = append(got, "all:"+ev.Type) })
	bus.Subscribe(EventClosed, func(ev Event) { got = append(got, "closed") })
	bus.Subscribe(EventOpened, func(ev Event) { got = append(got, "opened") })

	bus.Publish(Event{Type: EventClosed})

	assert.Equal(t, []string{"closed", "all:session.closed"}, got)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))
	delivered := false

	bus.Subscribe(EventMinimized, func(Event) { panic("bad handler") })
	bus.Subscribe(EventMinimized, func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(Event{Type: EventMinimized}) })
	assert.True(t, delivered)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0

	sub := bus.Subscribe(EventRaised, func(Event) { calls++ })
	assert.Equal(t, 1, bus.SubscriptionCount())

	assert.True(t, bus.Unsubscribe(sub))
	assert.False(t, bus.Unsubscribe(sub))
	bus.Publish(Event{Type: EventRaised})

	assert.Zero(t, calls)
	assert.Zero(t, bus.SubscriptionCount())
}
