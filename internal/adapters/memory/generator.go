package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/scheduling"
)

var idNamespace = uuid.MustParse("6f1c2a52-8f0e-4d5b-9a57-3c1e0d2b7a91")

var categoryDurations = map[entities.Category]int{
	entities.CategoryLaboratory:   10,
	entities.CategoryImaging:      30,
	entities.CategoryEKG:          15,
	entities.CategoryConsultation: 20,
}

const (
	openingHour = 8
	closingHour = 16
)

// CatalogTypes returns one examination type per catalogued key.
// Ids are derived from the type name, so repeated runs produce the same directory.
func CatalogTypes() []*entities.ExaminationType {
	keys := scheduling.Keys()
	types := make([]*entities.ExaminationType, 0, len(keys))
	for _, key := range keys {
		name := scheduling.TypeName(key)
		types = append(types, &entities.ExaminationType{
			ID:   uuid.NewSHA1(idNamespace, []byte("type:"+name)).String(),
			Name: name,
		})
	}
	return types
}

// GenerateSlots lays out back-to-back slots for every catalogued examination type on each
// weekday between opening and closing hour, for days days starting at from's date (UTC).
// Slots starting before from are skipped. Output is deterministic for equal inputs.
func GenerateSlots(from time.Time, days int) []*entities.TimeSlot {
	from = from.UTC()
	firstDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	var slots []*entities.TimeSlot
	for _, key := range scheduling.Keys() {
		category, _ := scheduling.CategoryOf(key)
		duration := categoryDurations[category]
		typeID := uuid.NewSHA1(idNamespace, []byte("type:"+scheduling.TypeName(key))).String()

		for d := 0; d < days; d++ {
			day := firstDay.AddDate(0, 0, d)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}

			closing := day.Add(closingHour * time.Hour)
			for start := day.Add(openingHour * time.Hour); !start.Add(time.Duration(duration) * time.Minute).After(closing); start = start.Add(time.Duration(duration) * time.Minute) {
				if start.Before(from) {
					continue
				}
				slots = append(slots, &entities.TimeSlot{
					ID:                uuid.NewSHA1(idNamespace, []byte(typeID+start.Format(time.RFC3339))).String(),
					ExaminationTypeID: typeID,
					StartDateTime:     start,
					DurationMinutes:   duration,
				})
			}
		}
	}
	return slots
}

// NewSeededSlotStore creates a store holding the catalog directory and days of generated slots
func NewSeededSlotStore(from time.Time, days int) *SlotStore {
	store := NewSlotStore()
	store.AddExaminationTypes(CatalogTypes()...)
	store.AddSlots(GenerateSlots(from, days)...)
	return store
}
