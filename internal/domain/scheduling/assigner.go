package scheduling

import (
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// MaxCandidatesPerExamination caps the slots offered for a single examination.
const MaxCandidatesPerExamination = 3

// Assign picks up to MaxCandidatesPerExamination slots per examination, walking the worklist
// in order. Every accepted slot is reserved for the rest of the pass, so no two slots returned
// for different examinations overlap.
//
// The pass is greedy and never backtracks: an earlier examination keeps its picks even when
// that leaves a later one with nothing. Pool order is preserved, so with a pool sorted by start
// time the earliest feasible slots win. Examinations without a type id, or whose slots are all
// taken, get an empty list.
func Assign(worklist []entities.PrioritizedExamination, typeIDByKey map[string]string, pool []*entities.TimeSlot) []entities.ExaminationSchedule {
	var selected []*entities.TimeSlot
	schedules := make([]entities.ExaminationSchedule, 0, len(worklist))

	for _, exam := range worklist {
		schedule := entities.ExaminationSchedule{
			Key:      exam.Key,
			Priority: exam.Priority,
			Category: exam.Category,
			Slots:    []*entities.TimeSlot{},
		}

		typeID, ok := typeIDByKey[exam.Key]
		if !ok {
			schedules = append(schedules, schedule)
			continue
		}

		for _, slot := range pool {
			if len(schedule.Slots) == MaxCandidatesPerExamination {
				break
			}
			if slot.ExaminationTypeID != typeID || !slot.IsAvailable() {
				continue
			}
			if overlapsAny(slot, selected, 0) {
				continue
			}
			schedule.Slots = append(schedule.Slots, slot)
			selected = append(selected, slot)
		}

		schedules = append(schedules, schedule)
	}

	return schedules
}

// CountScheduled returns how many examinations received at least one candidate.
func CountScheduled(schedules []entities.ExaminationSchedule) int {
	count := 0
	for _, schedule := range schedules {
		if len(schedule.Slots) > 0 {
			count++
		}
	}
	return count
}
