package entities

import (
	"time"
)

// ExaminationSchedule holds the candidate slots offered for one examination
type ExaminationSchedule struct {
	Key      string      `json:"key"`
	Priority int         `json:"priority"`
	Category Category    `json:"category,omitempty"`
	Slots    []*TimeSlot `json:"slots"`
}

// ScheduleResult is the outcome of one assignment pass, in worklist order
type ScheduleResult struct {
	Examinations          []ExaminationSchedule `json:"examinations"`
	TotalExaminations     int                   `json:"totalExaminations"`
	ScheduledExaminations int                   `json:"scheduledExaminations"`
	UnknownExaminations   []string              `json:"unknownExaminations"`
}

// Booking is the commitment of one slot
type Booking struct {
	ID       string    `json:"bookingId"`
	SlotID   string    `json:"slotId"`
	BookedAt time.Time `json:"bookedAt"`
}

// SlotEventType represents the type of slot event
type SlotEventType string

const (
	SlotEventBooked SlotEventType = "slot.booked"
)

// SlotEvent notifies subscribers that the slot pool changed
type SlotEvent struct {
	ID                string        `json:"id"`
	Type              SlotEventType `json:"type"`
	SlotID            string        `json:"slotId"`
	ExaminationTypeID string        `json:"examinationTypeId"`
	StartDateTime     time.Time     `json:"startDateTime"`
	Timestamp         time.Time     `json:"timestamp"`
}
