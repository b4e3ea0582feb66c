package scheduling_test

import (
	"time"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

var testDay = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return testDay.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func newSlot(id, typeID, start string, minutes int) *entities.TimeSlot {
	return &entities.TimeSlot{
		ID:                id,
		ExaminationTypeID: typeID,
		StartDateTime:     at(start),
		DurationMinutes:   minutes,
	}
}

func slotIDs(slots []*entities.TimeSlot) []string {
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func worklistKeys(worklist []entities.PrioritizedExamination) []string {
	keys := make([]string, 0, len(worklist))
	for _, exam := range worklist {
		keys = append(keys, exam.Key)
	}
	return keys
}

func scheduleKeys(schedules []entities.ExaminationSchedule) []string {
	keys := make([]string, 0, len(schedules))
	for _, s := range schedules {
		keys = append(keys, s.Key)
	}
	return keys
}
