package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/scheduling"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aMinutes int
		bStart   string
		bMinutes int
		buffer   int
		expected bool
	}{
		{"disjoint", "09:00", 30, "10:00", 30, 0, false},
		{"back to back", "09:00", 30, "09:30", 30, 0, false},
		{"partial", "09:00", 30, "09:15", 30, 0, true},
		{"contained", "09:00", 60, "09:15", 15, 0, true},
		{"identical", "09:00", 30, "09:00", 30, 0, true},
		{"zero duration inside", "09:00", 30, "09:10", 0, 0, true},
		{"zero duration at end", "09:00", 30, "09:30", 0, 0, false},
		{"buffer blocks back to back", "09:00", 30, "09:30", 30, 30, true},
		{"buffer boundary admits", "09:30", 30, "10:30", 30, 30, false},
		{"buffer boundary blocks one minute early", "09:30", 30, "10:29", 30, 30, true},
		{"buffer applies before the other slot too", "09:45", 30, "09:00", 30, 30, true},
		{"far apart with buffer", "08:00", 30, "11:00", 30, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newSlot("a", "type-a", tt.aStart, tt.aMinutes)
			b := newSlot("b", "type-b", tt.bStart, tt.bMinutes)

			assert.Equal(t, tt.expected, scheduling.Overlaps(a, b, tt.buffer))
			assert.Equal(t, tt.expected, scheduling.Overlaps(b, a, tt.buffer), "overlap must be symmetric")
		})
	}
}
