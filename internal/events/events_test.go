// file: internal/events/events_test.go
package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects delivered events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handler(id string) EventHandler {
	return NewEventHandlerFunc(id, func(ctx context.Context, event Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
		return nil
	})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) waitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d events, got %d", n, r.count())
}

func newStartedBus(t *testing.T) EventBus {
	t.Helper()
	bus := NewInMemoryEventBus(&Config{BufferSize: 16, WorkerCount: 2}, nil)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	})
	return bus
}

func TestPublish_DeliversToMatchingHandlersOnly(t *testing.T) {
	bus := newStartedBus(t)
	votes := &recorder{}
	donations := &recorder{}

	require.NoError(t, bus.Subscribe(TypeVoteCast, votes.handler("votes")))
	require.NoError(t, bus.Subscribe(TypeDonationMade, donations.handler("donations")))

	require.NoError(t, bus.Publish(context.Background(), NewVoteCastEvent(1, 2)))

	assert.Equal(t, 1, votes.count())
	assert.Zero(t, donations.count())
}

func TestPublishAsync_DeliversThroughWorkers(t *testing.T) {
	bus := newStartedBus(t)
	rec := &recorder{}
	require.NoError(t, bus.Subscribe(TypeBadgeAwarded, rec.handler("badges")))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		event := NewBadgeAwardedEvent(int64(i), "newcomer", "user", 7, nil, nil)
		require.NoError(t, bus.PublishAsync(ctx, event))
	}

	rec.waitFor(t, 5)
}

func TestPublishAsync_FullQueueIsAnError(t *testing.T) {
	// Unstarted bus: nothing drains the queue.
	bus := NewInMemoryEventBus(&Config{BufferSize: 1, WorkerCount: 1}, nil)
	ctx := context.Background()

	require.NoError(t, bus.PublishAsync(ctx, NewVoteCastEvent(1, 2)))
	err := bus.PublishAsync(ctx, NewVoteCastEvent(1, 3))
	require.Error(t, err)
}

func TestDispatch_ContainsHandlerPanics(t *testing.T) {
	bus := newStartedBus(t)
	rec := &recorder{}

	require.NoError(t, bus.Subscribe(TypeVoteCast, NewEventHandlerFunc("explosive", func(ctx context.Context, event Event) error {
		panic("boom")
	})))
	require.NoError(t, bus.Subscribe(TypeVoteCast, rec.handler("steady")))

	err := bus.Publish(context.Background(), NewVoteCastEvent(1, 2))
	require.Error(t, err)
	// The panicking handler does not stop delivery to the others.
	assert.Equal(t, 1, rec.count())
}

func TestUnsubscribe(t *testing.T) {
	bus := newStartedBus(t)
	rec := &recorder{}
	handler := rec.handler("temp")

	require.NoError(t, bus.Subscribe(TypeVoteCast, handler))
	require.NoError(t, bus.Unsubscribe(TypeVoteCast, handler))
	require.NoError(t, bus.Publish(context.Background(), NewVoteCastEvent(1, 2)))
	assert.Zero(t, rec.count())
}

func TestEventEnvelope(t *testing.T) {
	event := NewDonationMadeEvent(10, 20, 55.5, "EUR")

	assert.Equal(t, TypeDonationMade, event.GetEventType())
	assert.NotEmpty(t, event.GetEventID())
	assert.Contains(t, event.GetEventID(), "evt_")
	assert.WithinDuration(t, time.Now(), event.GetTimestamp(), time.Second)
	require.NotNil(t, event.GetUserID())
	assert.Equal(t, int64(20), *event.GetUserID())

	other := NewDonationMadeEvent(10, 20, 55.5, "EUR")
	assert.NotEqual(t, event.GetEventID(), other.GetEventID())
}
