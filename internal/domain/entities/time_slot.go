package entities

import (
	"time"
)

// TimeSlot is a bookable interval tied to exactly one examination type
type TimeSlot struct {
	ID                string    `json:"id" db:"id"`
	ExaminationTypeID string    `json:"examinationTypeId" db:"examination_type_id"`
	StartDateTime     time.Time `json:"startDateTime" db:"start_date_time"`
	DurationMinutes   int       `json:"durationMinutes" db:"duration_minutes"`
	BookingID         *string   `json:"bookingId,omitempty" db:"booking_id"`
}

// Duration returns the slot length
func (s *TimeSlot) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// End returns the instant the slot finishes
func (s *TimeSlot) End() time.Time {
	return s.StartDateTime.Add(s.Duration())
}

// IsAvailable reports whether the slot has not been booked yet
func (s *TimeSlot) IsAvailable() bool {
	return s.BookingID == nil
}
