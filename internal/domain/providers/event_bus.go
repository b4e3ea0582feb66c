package providers

import (
	"context"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to slot events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.SlotEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SlotEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelSlotUpdates is the channel for all slot pool changes
	EventChannelSlotUpdates = "slots:updates"

	// EventChannelExaminationTypePrefix is the prefix for per examination type channels
	EventChannelExaminationTypePrefix = "slots:type:"
)

// GetExaminationTypeChannel returns the channel name for one examination type
func GetExaminationTypeChannel(examinationTypeID string) string {
	return EventChannelExaminationTypePrefix + examinationTypeID
}
