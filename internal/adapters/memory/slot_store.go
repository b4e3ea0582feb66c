package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

// SlotStore keeps the examination type directory and slot pool in process memory.
// It implements both SlotRepository and ExaminationTypeRepository.
type SlotStore struct {
	mu    sync.RWMutex
	types []*entities.ExaminationType
	slots map[string]*entities.TimeSlot
}

// NewSlotStore creates an empty store
func NewSlotStore() *SlotStore {
	return &SlotStore{
		slots: make(map[string]*entities.TimeSlot),
	}
}

// AddExaminationTypes registers directory entries. Entries whose id is already known are ignored.
func (s *SlotStore) AddExaminationTypes(types ...*entities.ExaminationType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.types))
	for _, t := range s.types {
		known[t.ID] = struct{}{}
	}
	for _, t := range types {
		if _, ok := known[t.ID]; ok {
			continue
		}
		known[t.ID] = struct{}{}
		s.types = append(s.types, &entities.ExaminationType{ID: t.ID, Name: t.Name})
	}
}

// AddSlots adds slots to the pool. Slots whose id is already known are ignored.
func (s *SlotStore) AddSlots(slots ...*entities.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range slots {
		if _, ok := s.slots[slot.ID]; ok {
			continue
		}
		s.slots[slot.ID] = copySlot(slot)
	}
}

// List returns the directory ordered by name
func (s *SlotStore) List(ctx context.Context) ([]*entities.ExaminationType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]*entities.ExaminationType, 0, len(s.types))
	for _, t := range s.types {
		types = append(types, &entities.ExaminationType{ID: t.ID, Name: t.Name})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// ListAvailable returns unbooked slots matching filter, ordered by start time then id
func (s *SlotStore) ListAvailable(ctx context.Context, filter repositories.SlotFilter) ([]*entities.TimeSlot, error) {
	var typeIDs map[string]struct{}
	if len(filter.ExaminationTypeIDs) > 0 {
		typeIDs = make(map[string]struct{}, len(filter.ExaminationTypeIDs))
		for _, id := range filter.ExaminationTypeIDs {
			typeIDs[id] = struct{}{}
		}
	}

	s.mu.RLock()
	result := []*entities.TimeSlot{}
	for _, slot := range s.slots {
		if !slot.IsAvailable() {
			continue
		}
		if typeIDs != nil {
			if _, ok := typeIDs[slot.ExaminationTypeID]; !ok {
				continue
			}
		}
		if filter.From != nil && slot.StartDateTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !slot.StartDateTime.Before(*filter.To) {
			continue
		}
		result = append(result, copySlot(slot))
	}
	s.mu.RUnlock()

	sortSlots(result)
	return result, nil
}

// GetByIDs returns the known slots among ids, booked or not
func (s *SlotStore) GetByIDs(ctx context.Context, ids []string) ([]*entities.TimeSlot, error) {
	s.mu.RLock()
	result := make([]*entities.TimeSlot, 0, len(ids))
	for _, id := range ids {
		if slot, ok := s.slots[id]; ok {
			result = append(result, copySlot(slot))
		}
	}
	s.mu.RUnlock()

	sortSlots(result)
	return result, nil
}

// Book assigns bookingID to a free slot. A slot can be booked at most once.
func (s *SlotStore) Book(ctx context.Context, slotID, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("slot with id %s not found", slotID))
	}
	if !slot.IsAvailable() {
		return apperrors.NewConflictError(fmt.Sprintf("slot %s is already booked", slotID))
	}

	id := bookingID
	slot.BookingID = &id
	return nil
}

func copySlot(slot *entities.TimeSlot) *entities.TimeSlot {
	c := *slot
	if slot.BookingID != nil {
		id := *slot.BookingID
		c.BookingID = &id
	}
	return &c
}

func sortSlots(slots []*entities.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartDateTime.Equal(slots[j].StartDateTime) {
			return slots[i].ID < slots[j].ID
		}
		return slots[i].StartDateTime.Before(slots[j].StartDateTime)
	})
}
