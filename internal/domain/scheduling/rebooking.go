package scheduling

import (
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// DefaultRebookBufferMinutes is the gap kept around other examinations' slots when rebooking.
const DefaultRebookBufferMinutes = 30

// Alternatives returns every slot of the target type that keeps a bufferMinutes gap to the
// committed slots of all other examinations. Committed slots of the target type itself are
// ignored, so a patient can always move within their own examination's offerings.
// The result is not capped and keeps the input order.
func Alternatives(targetTypeID string, slotsForType, committed []*entities.TimeSlot, bufferMinutes int) []*entities.TimeSlot {
	blocking := make([]*entities.TimeSlot, 0, len(committed))
	for _, slot := range committed {
		if slot.ExaminationTypeID == targetTypeID {
			continue
		}
		blocking = append(blocking, slot)
	}

	alternatives := []*entities.TimeSlot{}
	for _, slot := range slotsForType {
		if slot.ExaminationTypeID != targetTypeID {
			continue
		}
		if overlapsAny(slot, blocking, bufferMinutes) {
			continue
		}
		alternatives = append(alternatives, slot)
	}
	return alternatives
}
