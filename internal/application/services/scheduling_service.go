package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/scheduling"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// AlternativesRequest asks for replacement slots for one examination of an existing schedule
type AlternativesRequest struct {
	ExaminationKey   string
	CommittedSlotIDs []string
	From             *time.Time
	To               *time.Time
}

// SchedulingService turns questionnaire answers into candidate slots and commits bookings
type SchedulingService struct {
	slotRepo      repositories.SlotRepository
	typeRepo      repositories.ExaminationTypeRepository
	eventBus      providers.EventBus
	metrics       *observability.Metrics
	bufferMinutes int
	now           func() time.Time
}

// NewSchedulingService creates a new scheduling service. eventBus and metrics may be nil.
func NewSchedulingService(
	slotRepo repositories.SlotRepository,
	typeRepo repositories.ExaminationTypeRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
	bufferMinutes int,
) *SchedulingService {
	return &SchedulingService{
		slotRepo:      slotRepo,
		typeRepo:      typeRepo,
		eventBus:      eventBus,
		metrics:       metrics,
		bufferMinutes: bufferMinutes,
		now:           time.Now,
	}
}

// WithClock replaces the clock used for the lower bound of slot queries
func (s *SchedulingService) WithClock(now func() time.Time) *SchedulingService {
	s.now = now
	return s
}

// Schedule prioritizes the questionnaire and assigns up to three non-overlapping candidate
// slots to each requested examination.
func (s *SchedulingService) Schedule(ctx context.Context, questionnaire *entities.Questionnaire) (*entities.ScheduleResult, error) {
	ctx, span := observability.StartSpan(ctx, "SchedulingService.Schedule")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	if err := validateQuestionnaire(questionnaire); err != nil {
		return nil, err
	}

	worklist := scheduling.Prioritize(questionnaire.Mandatory, questionnaire.Optional)
	if len(worklist) == 0 {
		return nil, apperrors.NewValidationError("no examinations were ordered")
	}

	typeIDs, err := s.resolveTypeIDs(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	typeIDByKey := make(map[string]string, len(worklist))
	unknown := []string{}
	requestedTypeIDs := make([]string, 0, len(worklist))
	for _, exam := range worklist {
		id, ok := typeIDs[scheduling.TypeName(exam.Key)]
		if !ok {
			unknownErr := apperrors.NewUnknownExaminationTypeError(exam.Key)
			logger.Warn().Str("examination_key", exam.Key).Msg(unknownErr.Message)
			unknown = append(unknown, exam.Key)
			continue
		}
		typeIDByKey[exam.Key] = id
		requestedTypeIDs = append(requestedTypeIDs, id)
	}

	// Only unknown keys: nothing to fetch, every examination gets an empty candidate list
	var pool []*entities.TimeSlot
	if len(requestedTypeIDs) > 0 {
		from := s.now()
		pool, err = s.slotRepo.ListAvailable(ctx, repositories.SlotFilter{
			ExaminationTypeIDs: requestedTypeIDs,
			From:               &from,
		})
		if err != nil {
			observability.RecordError(span, err)
			return nil, err
		}
		logger.Debug().Int("pool_size", len(pool)).Int("examinations", len(worklist)).Msg("Loaded slot pool")

		if len(pool) == 0 {
			observability.RecordSchedule(ctx, s.metrics, len(worklist), len(worklist), len(unknown))
			return nil, apperrors.NewNoAvailableSlotsError("no free slots are available")
		}
	}

	schedules := scheduling.Assign(worklist, typeIDByKey, pool)
	scheduled := scheduling.CountScheduled(schedules)

	observability.RecordSchedule(ctx, s.metrics, len(worklist), len(worklist)-scheduled, len(unknown))
	observability.SetSpanAttributes(span,
		attribute.Int("scheduling.examinations", len(worklist)),
		attribute.Int("scheduling.scheduled", scheduled),
		attribute.Int("scheduling.pool_size", len(pool)),
	)

	return &entities.ScheduleResult{
		Examinations:          schedules,
		TotalExaminations:     len(schedules),
		ScheduledExaminations: scheduled,
		UnknownExaminations:   unknown,
	}, nil
}

// Alternatives lists every free slot of the requested examination that keeps the rebooking
// buffer to the slots already committed for other examinations.
func (s *SchedulingService) Alternatives(ctx context.Context, req AlternativesRequest) ([]*entities.TimeSlot, error) {
	ctx, span := observability.StartSpan(ctx, "SchedulingService.Alternatives")
	defer span.End()

	key := strings.TrimSpace(req.ExaminationKey)
	if key == "" {
		return nil, apperrors.NewValidationError("examination key is required")
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, apperrors.NewValidationError("to must be after from")
	}

	typeIDs, err := s.resolveTypeIDs(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	typeID, ok := typeIDs[scheduling.TypeName(key)]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("examination type for %q not found", key))
	}

	committed, err := s.slotRepo.GetByIDs(ctx, req.CommittedSlotIDs)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if missing := missingSlotIDs(req.CommittedSlotIDs, committed); len(missing) > 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("committed slots not found: %s", strings.Join(missing, ", ")))
	}

	from := s.now()
	if req.From != nil && req.From.After(from) {
		from = *req.From
	}
	candidates, err := s.slotRepo.ListAvailable(ctx, repositories.SlotFilter{
		ExaminationTypeIDs: []string{typeID},
		From:               &from,
		To:                 req.To,
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	alternatives := scheduling.Alternatives(typeID, candidates, committed, s.bufferMinutes)
	observability.RecordAlternatives(ctx, s.metrics, key, len(alternatives))
	return alternatives, nil
}

// BookSlot commits a slot under a fresh booking id and announces it on the event bus
func (s *SchedulingService) BookSlot(ctx context.Context, slotID string) (*entities.Booking, error) {
	ctx, span := observability.StartSpan(ctx, "SchedulingService.BookSlot")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return nil, apperrors.NewValidationError("slot id is required")
	}

	slots, err := s.slotRepo.GetByIDs(ctx, []string{slotID})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if len(slots) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("slot with id %s not found", slotID))
	}
	slot := slots[0]

	booking := &entities.Booking{
		ID:       uuid.New().String(),
		SlotID:   slotID,
		BookedAt: s.now().UTC(),
	}
	if err := s.slotRepo.Book(ctx, slotID, booking.ID); err != nil {
		return nil, err
	}

	observability.RecordBooking(ctx, s.metrics, slot.ExaminationTypeID)
	logger.Info().Str("slot_id", slotID).Str("booking_id", booking.ID).Msg("Slot booked")

	s.publishBooked(ctx, slot, booking)
	return booking, nil
}

// ListExaminationTypes returns the examination type directory
func (s *SchedulingService) ListExaminationTypes(ctx context.Context) ([]*entities.ExaminationType, error) {
	return s.typeRepo.List(ctx)
}

func (s *SchedulingService) publishBooked(ctx context.Context, slot *entities.TimeSlot, booking *entities.Booking) {
	if s.eventBus == nil {
		return
	}

	event := &entities.SlotEvent{
		ID:                uuid.New().String(),
		Type:              entities.SlotEventBooked,
		SlotID:            slot.ID,
		ExaminationTypeID: slot.ExaminationTypeID,
		StartDateTime:     slot.StartDateTime,
		Timestamp:         booking.BookedAt,
	}

	channels := []string{
		providers.EventChannelSlotUpdates,
		providers.GetExaminationTypeChannel(slot.ExaminationTypeID),
	}
	for _, channel := range channels {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("channel", channel).Msg("Failed to publish slot event")
		}
	}
}

// resolveTypeIDs maps directory names to type ids
func (s *SchedulingService) resolveTypeIDs(ctx context.Context) (map[string]string, error) {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(types))
	for _, t := range types {
		ids[t.Name] = t.ID
	}
	return ids, nil
}

func validateQuestionnaire(questionnaire *entities.Questionnaire) error {
	if questionnaire == nil || questionnaire.Mandatory == nil {
		return apperrors.NewValidationError("mandatory examinations are required")
	}
	return nil
}

func missingSlotIDs(ids []string, found []*entities.TimeSlot) []string {
	known := make(map[string]struct{}, len(found))
	for _, slot := range found {
		known[slot.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
