package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// SlotRepository defines the slot pool operations
type SlotRepository interface {
	// ListAvailable returns unbooked slots matching the filter, ordered by start time ascending
	ListAvailable(ctx context.Context, filter SlotFilter) ([]*entities.TimeSlot, error)

	// GetByIDs retrieves slots by ID regardless of booking state; unknown IDs are skipped
	GetByIDs(ctx context.Context, ids []string) ([]*entities.TimeSlot, error)

	// Book assigns bookingID to the slot if it is still free.
	// It returns a conflict error when the slot was already booked.
	Book(ctx context.Context, slotID, bookingID string) error
}

// SlotFilter narrows the slot pool
type SlotFilter struct {
	ExaminationTypeIDs []string
	From               *time.Time
	To                 *time.Time
}

// ExaminationTypeRepository defines read access to the examination type directory
type ExaminationTypeRepository interface {
	// List returns every examination type
	List(ctx context.Context) ([]*entities.ExaminationType, error)
}
