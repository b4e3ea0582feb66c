package memory

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

const subscriberBuffer = 100

// EventBus is an in-process EventBus used when no Redis is configured
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.SlotEvent]struct{}
	closed      bool
}

// NewEventBus creates an in-process event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]map[chan *entities.SlotEvent]struct{}),
	}
}

// Publish delivers event to current subscribers of channel without blocking
func (b *EventBus) Publish(ctx context.Context, channel string, event *entities.SlotEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
	return nil
}

// Subscribe returns a channel of events that is closed once ctx is done or the bus closes
func (b *EventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.SlotEvent, error) {
	eventChan := make(chan *entities.SlotEvent, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(eventChan)
		return eventChan, nil
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.SlotEvent]struct{})
	}
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *EventBus) remove(channel string, eventChan chan *entities.SlotEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.subscribers[channel]
	if !ok {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}
	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Close closes every subscriber channel
func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	b.closed = true
	return nil
}
