package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zatekoja/screeningscheduler/backend/internal/application/services"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

const maxRequestBodyBytes = 1 << 20

// SchedulingService is the behaviour the scheduling endpoints depend on
type SchedulingService interface {
	Schedule(ctx context.Context, questionnaire *entities.Questionnaire) (*entities.ScheduleResult, error)
	Alternatives(ctx context.Context, req services.AlternativesRequest) ([]*entities.TimeSlot, error)
	BookSlot(ctx context.Context, slotID string) (*entities.Booking, error)
	ListExaminationTypes(ctx context.Context) ([]*entities.ExaminationType, error)
}

// ScheduleHandler handles scheduling, rebooking and booking requests
type ScheduleHandler struct {
	service SchedulingService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service SchedulingService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

type examinationOrderRequest struct {
	Order    bool `json:"order"`
	Priority int  `json:"priority"`
}

type scheduleRequest struct {
	Mandatory map[string]examinationOrderRequest `json:"mandatory" validate:"required,dive,keys,examination_key,endkeys"`
	Optional  map[string]examinationOrderRequest `json:"optional" validate:"omitempty,dive,keys,examination_key,endkeys"`
}

type alternativesRequest struct {
	ExaminationKey   string     `json:"examinationKey" validate:"required,examination_key"`
	CommittedSlotIDs []string   `json:"committedSlotIds" validate:"omitempty,dive,required"`
	From             *time.Time `json:"from"`
	To               *time.Time `json:"to"`
}

type bookingResponse struct {
	SlotID    string    `json:"slotId"`
	BookingID string    `json:"bookingId"`
	BookedAt  time.Time `json:"bookedAt"`
}

// CreateSchedule handles POST /api/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	questionnaire := &entities.Questionnaire{
		Mandatory: toOrders(req.Mandatory),
		Optional:  toOrders(req.Optional),
	}

	result, err := h.service.Schedule(r.Context(), questionnaire)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// FindAlternatives handles POST /api/schedules/alternatives
func (h *ScheduleHandler) FindAlternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	slots, err := h.service.Alternatives(r.Context(), services.AlternativesRequest{
		ExaminationKey:   req.ExaminationKey,
		CommittedSlotIDs: req.CommittedSlotIDs,
		From:             req.From,
		To:               req.To,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
		"count": len(slots),
	})
}

// BookSlot handles POST /api/slots/{id}/book
func (h *ScheduleHandler) BookSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("id")
	if slotID == "" {
		respondWithError(w, http.StatusBadRequest, "slot ID is required")
		return
	}

	booking, err := h.service.BookSlot(r.Context(), slotID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, bookingResponse{
		SlotID:    booking.SlotID,
		BookingID: booking.ID,
		BookedAt:  booking.BookedAt,
	})
}

// ListExaminationTypes handles GET /api/examination-types
func (h *ScheduleHandler) ListExaminationTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListExaminationTypes(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"examinationTypes": types,
		"count":            len(types),
	})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}

func toOrders(section map[string]examinationOrderRequest) map[string]entities.ExaminationOrder {
	if section == nil {
		return nil
	}
	orders := make(map[string]entities.ExaminationOrder, len(section))
	for key, order := range section {
		orders[key] = entities.ExaminationOrder{Order: order.Order, Priority: order.Priority}
	}
	return orders
}
