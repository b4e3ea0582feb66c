package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

// BreakerSlotAdapter fails slot pool calls fast while the underlying store keeps erroring.
// Conflicts, missing slots and cancelled requests do not count as store failures.
type BreakerSlotAdapter struct {
	adapter repositories.SlotRepository
	cb      *gobreaker.CircuitBreaker
}

// NewBreakerSlotAdapter wraps adapter with a circuit breaker that opens after maxFailures
// consecutive failures and probes again after openTimeout.
func NewBreakerSlotAdapter(adapter repositories.SlotRepository, maxFailures int, openTimeout time.Duration) *BreakerSlotAdapter {
	if maxFailures < 1 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        "slot-pool",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return apperrors.IsType(err, apperrors.ErrorTypeConflict) ||
				apperrors.IsType(err, apperrors.ErrorTypeNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	return &BreakerSlotAdapter{
		adapter: adapter,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// ListAvailable delegates through the breaker
func (a *BreakerSlotAdapter) ListAvailable(ctx context.Context, filter repositories.SlotFilter) ([]*entities.TimeSlot, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.adapter.ListAvailable(ctx, filter)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.([]*entities.TimeSlot), nil
}

// GetByIDs delegates through the breaker
func (a *BreakerSlotAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.TimeSlot, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.adapter.GetByIDs(ctx, ids)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.([]*entities.TimeSlot), nil
}

// Book delegates through the breaker
func (a *BreakerSlotAdapter) Book(ctx context.Context, slotID, bookingID string) error {
	_, err := a.cb.Execute(func() (interface{}, error) {
		return nil, a.adapter.Book(ctx, slotID, bookingID)
	})
	return breakerError(err)
}

// State reports the current breaker state
func (a *BreakerSlotAdapter) State() gobreaker.State {
	return a.cb.State()
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.NewInternalError("slot pool temporarily unavailable", err)
	}
	return err
}
