package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

const slotsTable = "time_slots"

var slotColumns = []interface{}{"id", "examination_type_id", "start_date_time", "duration_minutes", "booking_id"}

// SlotAdapter implements the SlotRepository interface on PostgreSQL
type SlotAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSlotAdapter creates a new slot adapter
func NewSlotAdapter(client *postgres.Client) *SlotAdapter {
	return &SlotAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListAvailable retrieves unbooked slots ordered by start time
func (a *SlotAdapter) ListAvailable(ctx context.Context, filter repositories.SlotFilter) ([]*entities.TimeSlot, error) {
	ds := a.db.Select(slotColumns...).
		From(slotsTable).
		Where(goqu.C("booking_id").IsNull())

	if len(filter.ExaminationTypeIDs) > 0 {
		ds = ds.Where(goqu.C("examination_type_id").In(filter.ExaminationTypeIDs))
	}
	if filter.From != nil {
		ds = ds.Where(goqu.C("start_date_time").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("start_date_time").Lt(*filter.To))
	}

	query, args, err := ds.Order(goqu.I("start_date_time").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build slot query", err)
	}

	return a.query(ctx, query, args...)
}

// GetByIDs retrieves slots by ID
func (a *SlotAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.TimeSlot, error) {
	if len(ids) == 0 {
		return []*entities.TimeSlot{}, nil
	}

	query, args, err := a.db.Select(slotColumns...).
		From(slotsTable).
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("start_date_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build slot query", err)
	}

	return a.query(ctx, query, args...)
}

// Book sets the booking id of a free slot. The update only matches unbooked rows, so two
// concurrent bookings of one slot cannot both succeed.
func (a *SlotAdapter) Book(ctx context.Context, slotID, bookingID string) error {
	query, args, err := a.db.Update(slotsTable).
		Set(goqu.Record{"booking_id": bookingID}).
		Where(goqu.Ex{"id": slotID}, goqu.C("booking_id").IsNull()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build booking query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to book slot", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	existing, err := a.GetByIDs(ctx, []string{slotID})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("slot with id %s not found", slotID))
	}
	return apperrors.NewConflictError(fmt.Sprintf("slot %s is already booked", slotID))
}

// Create inserts slots; used by the seeder
func (a *SlotAdapter) Create(ctx context.Context, slots []*entities.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		var bookingID interface{}
		if slot.BookingID != nil {
			bookingID = *slot.BookingID
		}
		rows = append(rows, goqu.Record{
			"id":                  slot.ID,
			"examination_type_id": slot.ExaminationTypeID,
			"start_date_time":     slot.StartDateTime,
			"duration_minutes":    slot.DurationMinutes,
			"booking_id":          bookingID,
		})
	}

	query, args, err := a.db.Insert(slotsTable).Rows(rows...).OnConflict(goqu.DoNothing()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create slots", err)
	}
	return nil
}

func (a *SlotAdapter) query(ctx context.Context, query string, args ...interface{}) ([]*entities.TimeSlot, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query slots", err)
	}
	defer rows.Close()

	slots := []*entities.TimeSlot{}
	for rows.Next() {
		slot := &entities.TimeSlot{}
		var bookingID sql.NullString
		if err := rows.Scan(
			&slot.ID,
			&slot.ExaminationTypeID,
			&slot.StartDateTime,
			&slot.DurationMinutes,
			&bookingID,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan slot", err)
		}
		if bookingID.Valid {
			slot.BookingID = &bookingID.String
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate slots", err)
	}

	return slots, nil
}
