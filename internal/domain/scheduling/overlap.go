package scheduling

import (
	"time"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// Overlaps reports whether two slots intersect once each end is pushed back by bufferMinutes.
// Intervals are half-open: with no buffer, a slot ending when the other starts does not overlap.
func Overlaps(a, b *entities.TimeSlot, bufferMinutes int) bool {
	buffer := time.Duration(bufferMinutes) * time.Minute
	endA := a.End().Add(buffer)
	endB := b.End().Add(buffer)
	return a.StartDateTime.Before(endB) && endA.After(b.StartDateTime)
}

func overlapsAny(slot *entities.TimeSlot, others []*entities.TimeSlot, bufferMinutes int) bool {
	for _, other := range others {
		if Overlaps(slot, other, bufferMinutes) {
			return true
		}
	}
	return false
}
