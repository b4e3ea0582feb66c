package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/memory"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newStore() *memory.SlotStore {
	store := memory.NewSlotStore()
	store.AddExaminationTypes(
		&entities.ExaminationType{ID: "xray", Name: "Chest X-Ray"},
		&entities.ExaminationType{ID: "lab", Name: "Complete Blood Count"},
	)
	store.AddSlots(
		&entities.TimeSlot{ID: "x2", ExaminationTypeID: "xray", StartDateTime: at(10, 0), DurationMinutes: 30},
		&entities.TimeSlot{ID: "x1", ExaminationTypeID: "xray", StartDateTime: at(9, 0), DurationMinutes: 30},
		&entities.TimeSlot{ID: "l1", ExaminationTypeID: "lab", StartDateTime: at(9, 0), DurationMinutes: 10},
	)
	return store
}

func ids(slots []*entities.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.ID)
	}
	return out
}

func TestSlotStore_ListAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by start then id", func(t *testing.T) {
		slots, err := newStore().ListAvailable(ctx, repositories.SlotFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"l1", "x1", "x2"}, ids(slots))
	})

	t.Run("filters by type and window", func(t *testing.T) {
		from, to := at(9, 30), at(11, 0)
		slots, err := newStore().ListAvailable(ctx, repositories.SlotFilter{
			ExaminationTypeIDs: []string{"xray"},
			From:               &from,
			To:                 &to,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"x2"}, ids(slots))
	})

	t.Run("excludes booked slots", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Book(ctx, "x1", "b1"))

		slots, err := store.ListAvailable(ctx, repositories.SlotFilter{ExaminationTypeIDs: []string{"xray"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"x2"}, ids(slots))
	})

	t.Run("returned slots are copies", func(t *testing.T) {
		store := newStore()
		slots, err := store.ListAvailable(ctx, repositories.SlotFilter{})
		require.NoError(t, err)
		slots[0].DurationMinutes = 999

		again, err := store.GetByIDs(ctx, []string{slots[0].ID})
		require.NoError(t, err)
		assert.NotEqual(t, 999, again[0].DurationMinutes)
	})
}

func TestSlotStore_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("records booking id", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Book(ctx, "x1", "b1"))

		slots, err := store.GetByIDs(ctx, []string{"x1"})
		require.NoError(t, err)
		require.NotNil(t, slots[0].BookingID)
		assert.Equal(t, "b1", *slots[0].BookingID)
	})

	t.Run("second booking conflicts", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Book(ctx, "x1", "b1"))

		err := store.Book(ctx, "x1", "b2")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("unknown slot is not found", func(t *testing.T) {
		err := newStore().Book(ctx, "nope", "b1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("concurrent bookings succeed once", func(t *testing.T) {
		store := newStore()
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.Book(ctx, "x1", "b"); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
	})
}

func TestSlotStore_List(t *testing.T) {
	store := newStore()
	store.AddExaminationTypes(&entities.ExaminationType{ID: "xray", Name: "Duplicate"})

	types, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []*entities.ExaminationType{
		{ID: "xray", Name: "Chest X-Ray"},
		{ID: "lab", Name: "Complete Blood Count"},
	}, types)
}
