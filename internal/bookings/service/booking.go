package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/internal/bookings/repository"
	"clinicbook/internal/bookings/validator"
	"clinicbook/internal/events"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/internal/slots"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
	"clinicbook/pkg/sanitizer"
)

const (
	SlotConflictMessage       = "This slot has just been booked by someone else. Please select another time."
	PersistenceFailureMessage = "Booking failed. Please try again."
)

type BookingService interface {
	AvailableSlots(ctx context.Context, consultationType model.ConsultationType, date string) ([]model.SlotCandidate, error)
	Slots(ctx context.Context, consultationType model.ConsultationType, date string) (*model.DaySlots, error)
	Dates(ctx context.Context, consultationType model.ConsultationType) ([]model.DayAvailability, error)
	// AttemptBook is the only way a booking enters the store. It fails with
	// a conflict when the slot is already taken and never picks another one.
	AttemptBook(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
}

type bookingService struct {
	repo          repository.BookingRepository
	notifications notifservice.NotificationService
	validator     *validator.BookingValidator
	publisher     events.Publisher
	clock         calendar.Clock
	cfg           *config.Config

	// mu serializes the re-check and the writes of AttemptBook.
	mu            sync.Mutex
	lastCreatedAt time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	notifications notifservice.NotificationService,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	clock calendar.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:          repo,
		notifications: notifications,
		validator:     validator,
		publisher:     publisher,
		clock:         clock,
		cfg:           cfg,
	}
}

func (s *bookingService) AvailableSlots(ctx context.Context, consultationType model.ConsultationType, date string) ([]model.SlotCandidate, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(consultationType, day)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}

	return resolve(candidates, bookings, date, consultationType), nil
}

func (s *bookingService) Slots(ctx context.Context, consultationType model.ConsultationType, date string) (*model.DaySlots, error) {
	available, err := s.AvailableSlots(ctx, consultationType, date)
	if err != nil {
		return nil, err
	}

	morning, evening := slots.Split(available)
	return &model.DaySlots{
		Date:             date,
		ConsultationType: consultationType,
		Slots:            available,
		Morning:          morning,
		Evening:          evening,
		Total:            len(available),
		AvailableCount:   countAvailable(available),
	}, nil
}

func (s *bookingService) Dates(ctx context.Context, consultationType model.ConsultationType) ([]model.DayAvailability, error) {
	if !consultationType.Valid() {
		return nil, unknownTypeError(consultationType)
	}

	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}

	now := s.now()
	window := calendar.Window(now, s.cfg.BookingWindowDays)
	days := make([]model.DayAvailability, 0, len(window))
	for _, day := range window {
		date := calendar.FormatDate(day)
		candidates, err := slots.Candidates(consultationType, day)
		if err != nil {
			return nil, unknownTypeError(consultationType)
		}
		days = append(days, model.DayAvailability{
			Date:           date,
			Label:          calendar.DayLabel(day, now),
			AvailableCount: countAvailable(resolve(candidates, bookings, date, consultationType)),
		})
	}
	return days, nil
}

func (s *bookingService) AttemptBook(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}
	slot := req.Slot()

	day, err := s.parseDate(slot.Date)
	if err != nil {
		return nil, err
	}
	if !slots.Offers(slot.ConsultationType, day, slot.Time) {
		s.cfg.Log.Warn("Requested time not offered",
			"date", slot.Date,
			"time", slot.Time,
			"consultation_type", slot.ConsultationType,
		)
		return nil, apperrors.Validation("Selected time is not available for this date", map[string]any{
			"time": fmt.Sprintf("%s is not offered for %s consultations on %s", slot.Time, slot.ConsultationType, slot.Date),
		})
	}

	if err := s.commitDelay(ctx); err != nil {
		return nil, persistenceFailure(err)
	}

	booking, notificationID, err := s.commit(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCreated(booking, notificationID))

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"time", booking.Time,
		"consultation_type", booking.ConsultationType,
		"notification_id", notificationID,
	)
	return booking, nil
}

// commit runs the re-check and both writes inside the critical section.
// Once entered it is not cancelled by the caller, so it always ends in a
// committed booking or a clean failure.
func (s *bookingService) commit(ctx context.Context, req *model.BookingRequest) (*model.Booking, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	slot := req.Slot()

	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to re-check slot", "slot", slot.Key(), "error", err)
		return nil, "", persistenceFailure(err)
	}
	if isOccupied(existing, slot) {
		s.cfg.Log.Warn("Slot conflict detected at commit", "slot", slot.Key())
		return nil, "", slotConflict()
	}

	booking := &model.Booking{
		Date:             slot.Date,
		Time:             slot.Time,
		PatientName:      req.PatientName,
		PatientPhone:     req.PatientPhone,
		PatientEmail:     req.PatientEmail,
		Reason:           req.Reason,
		ConsultationType: slot.ConsultationType,
		CreatedAt:        s.nextCreatedAt(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicateSlot) {
			s.cfg.Log.Warn("Slot conflict rejected by store", "slot", slot.Key())
			return nil, "", slotConflict()
		}
		s.cfg.Log.Error("Failed to persist booking", "slot", slot.Key(), "error", err)
		return nil, "", persistenceFailure(err)
	}

	notification, err := s.notifications.Enqueue(ctx, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to enqueue notification, rolling back booking",
			"booking_id", booking.ID,
			"slot", slot.Key(),
			"error", err,
		)
		if rbErr := s.repo.Delete(ctx, booking.ID); rbErr != nil {
			s.cfg.Log.Error("Failed to roll back booking",
				"booking_id", booking.ID,
				"slot", slot.Key(),
				"error", rbErr,
			)
			err = errors.Join(err, rbErr)
		}
		return nil, "", persistenceFailure(err)
	}

	return booking, notification.ID, nil
}

// nextCreatedAt keeps creation timestamps strictly increasing at the
// millisecond resolution the stores keep. Callers hold mu.
func (s *bookingService) nextCreatedAt() time.Time {
	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	if !now.After(s.lastCreatedAt) {
		now = s.lastCreatedAt.Add(time.Millisecond)
	}
	s.lastCreatedAt = now
	return now
}

func (s *bookingService) commitDelay(ctx context.Context) error {
	if s.cfg.BookingCommitDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.cfg.BookingCommitDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *bookingService) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "event_type", event.Type, "key", event.Key, "error", err)
	}
}

func (s *bookingService) now() time.Time {
	now := s.clock.Now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	return now
}

func (s *bookingService) parseDate(date string) (time.Time, error) {
	day, err := calendar.ParseDate(date, s.cfg.Location)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("date must be in yyyy-MM-dd format")
	}
	return day, nil
}

func (s *bookingService) candidates(consultationType model.ConsultationType, day time.Time) ([]string, error) {
	candidates, err := slots.Candidates(consultationType, day)
	if err != nil {
		return nil, unknownTypeError(consultationType)
	}
	return candidates, nil
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.Time = sanitizer.TrimAndNormalize(req.Time)
	req.ConsultationType = sanitizer.TrimAndNormalize(req.ConsultationType)
	req.PatientName = sanitizer.NormalizeName(req.PatientName)
	req.PatientPhone = sanitizer.NormalizePhone(req.PatientPhone)
	req.PatientEmail = sanitizer.NormalizeEmail(req.PatientEmail)
	req.Reason = sanitizer.NormalizeFreeText(req.Reason)
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", verrs.Fields())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// resolve marks every candidate taken by a booking of the same date and
// type. Candidates are never dropped.
func resolve(candidates []string, bookings []*model.Booking, date string, consultationType model.ConsultationType) []model.SlotCandidate {
	taken := make(map[string]struct{})
	for _, b := range bookings {
		if b != nil && b.Date == date && b.ConsultationType == consultationType {
			taken[b.Time] = struct{}{}
		}
	}

	out := make([]model.SlotCandidate, 0, len(candidates))
	for _, label := range candidates {
		_, booked := taken[label]
		out = append(out, model.SlotCandidate{Time: label, Available: !booked})
	}
	return out
}

func isOccupied(bookings []*model.Booking, slot model.Slot) bool {
	for _, b := range bookings {
		if b != nil && b.Slot() == slot {
			return true
		}
	}
	return false
}

func countAvailable(candidates []model.SlotCandidate) int {
	n := 0
	for _, c := range candidates {
		if c.Available {
			n++
		}
	}
	return n
}

func slotConflict() error {
	return apperrors.Conflict(SlotConflictMessage, bookingserrors.ErrSlotConflict)
}

func persistenceFailure(cause error) error {
	return apperrors.Internal(PersistenceFailureMessage, fmt.Errorf("%w: %w", bookingserrors.ErrPersistence, cause))
}

func unknownTypeError(consultationType model.ConsultationType) error {
	return apperrors.Wrap(
		fmt.Errorf("%w: %q", bookingserrors.ErrUnknownConsultationType, string(consultationType)),
		apperrors.CodeInvalidInput,
		"consultation type must be video or in-person",
		http.StatusBadRequest,
	)
}
