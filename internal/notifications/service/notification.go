package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinicbook/internal/notifications/repository"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/google/uuid"
)

type NotificationService interface {
	Enqueue(ctx context.Context, booking *model.Booking) (*model.PendingNotification, error)
	ListPending(ctx context.Context) ([]*model.PendingNotification, error)
	// Consume removes the entry with the given ID. An unknown ID, including
	// one already consumed, is a no-op reported as false.
	Consume(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Renderer() Renderer
}

type notificationService struct {
	repo     repository.NotificationRepository
	renderer Renderer
	clock    calendar.Clock
	log      *logger.Logger

	mu            sync.Mutex
	lastCreatedAt time.Time
}

func NewNotificationService(repo repository.NotificationRepository, clock calendar.Clock, cfg *config.Config) NotificationService {
	return &notificationService{
		repo: repo,
		renderer: Renderer{
			CountryCode: cfg.WhatsAppCountryCode,
			ClinicPhone: cfg.ClinicContactPhone,
			DoctorName:  cfg.DoctorName,
			Location:    cfg.Location,
		},
		clock: clock,
		log:   cfg.Log,
	}
}

func (s *notificationService) Renderer() Renderer {
	return s.renderer
}

func (s *notificationService) Enqueue(ctx context.Context, booking *model.Booking) (*model.PendingNotification, error) {
	n := s.renderer.Notification(uuid.NewString(), booking, s.nextCreatedAt())

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to enqueue notification for %s: %w", booking.Slot().Key(), err)
	}

	s.log.Info("Notification enqueued",
		"notification_id", n.ID,
		"date", n.Date,
		"time", n.Time,
		"consultation_type", n.ConsultationType,
		"has_contact_link", n.HasContactLink(),
	)
	return n, nil
}

// nextCreatedAt keeps queue order stable in stores that sort by created_at
// at millisecond resolution.
func (s *notificationService) nextCreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	if !now.After(s.lastCreatedAt) {
		now = s.lastCreatedAt.Add(time.Millisecond)
	}
	s.lastCreatedAt = now
	return now
}

func (s *notificationService) ListPending(ctx context.Context) ([]*model.PendingNotification, error) {
	return s.repo.FindAll(ctx)
}

func (s *notificationService) Consume(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to consume notification %s: %w", id, err)
	}

	if removed {
		s.log.Info("Notification consumed", "notification_id", id)
	} else {
		s.log.Debug("Notification already consumed or unknown", "notification_id", id)
	}
	return removed, nil
}

func (s *notificationService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
