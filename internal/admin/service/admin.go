package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	bookingsrepo "clinicbook/internal/bookings/repository"
	"clinicbook/internal/events"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

const weekLookbackDays = 7

type AdminService interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	TodayAppointments(ctx context.Context) ([]model.AppointmentView, error)
	AllAppointments(ctx context.Context) ([]model.AppointmentView, error)
	PendingNotifications(ctx context.Context) ([]model.NotificationView, error)
	// MarkSent consumes the notification with the given ID. Unknown IDs are
	// not an error.
	MarkSent(ctx context.Context, id string) error
}

type adminService struct {
	bookings      bookingsrepo.BookingRepository
	notifications notifservice.NotificationService
	publisher     events.Publisher
	clock         calendar.Clock
	cfg           *config.Config
}

func NewAdminService(
	bookings bookingsrepo.BookingRepository,
	notifications notifservice.NotificationService,
	publisher events.Publisher,
	clock calendar.Clock,
	cfg *config.Config,
) AdminService {
	return &adminService{
		bookings:      bookings,
		notifications: notifications,
		publisher:     publisher,
		clock:         clock,
		cfg:           cfg,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	all, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.notifications.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count pending notifications", "error", err)
		return nil, apperrors.Internal("Failed to load dashboard", err)
	}

	now := s.now()
	weekAgo := now.AddDate(0, 0, -weekLookbackDays)
	valid := wellFormed(all)

	dashboard := &model.Dashboard{
		TotalBookings: len(all),
		PendingCount:  pending,
	}
	for _, b := range valid {
		day, err := calendar.ParseDate(b.Date, now.Location())
		if err != nil {
			continue
		}
		if calendar.SameDay(day, now) {
			dashboard.TodayCount++
		}
		if !day.Before(weekAgo) {
			dashboard.WeekCount++
		}
	}

	recent := slices.Clone(valid)
	slices.SortStableFunc(recent, func(a, b *model.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit := s.cfg.RecentBookingsLimit; limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	dashboard.RecentBookings = s.appointmentViews(recent, now)

	s.cfg.Log.Debug("Dashboard computed",
		"total", dashboard.TotalBookings,
		"today", dashboard.TodayCount,
		"week", dashboard.WeekCount,
		"pending", dashboard.PendingCount,
	)
	return dashboard, nil
}

func (s *adminService) TodayAppointments(ctx context.Context) ([]model.AppointmentView, error) {
	all, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := make([]*model.Booking, 0)
	for _, b := range wellFormed(all) {
		day, err := calendar.ParseDate(b.Date, now.Location())
		if err == nil && calendar.SameDay(day, now) {
			today = append(today, b)
		}
	}

	slices.SortStableFunc(today, func(a, b *model.Booking) int {
		ta, errA := calendar.ParseSlotTime(a.Time)
		tb, errB := calendar.ParseSlotTime(b.Time)
		if errA != nil || errB != nil {
			return 0
		}
		return cmp.Compare(ta, tb)
	})
	return s.appointmentViews(today, now), nil
}

func (s *adminService) AllAppointments(ctx context.Context) ([]model.AppointmentView, error) {
	all, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	valid := wellFormed(all)
	slices.SortStableFunc(valid, func(a, b *model.Booking) int {
		da, errA := calendar.ParseDate(a.Date, now.Location())
		db, errB := calendar.ParseDate(b.Date, now.Location())
		if errA != nil || errB != nil {
			return 0
		}
		return calendar.CompareDays(da, db)
	})
	return s.appointmentViews(valid, now), nil
}

func (s *adminService) PendingNotifications(ctx context.Context) ([]model.NotificationView, error) {
	pending, err := s.notifications.ListPending(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list pending notifications", "error", err)
		return nil, apperrors.Internal("Failed to load pending notifications", err)
	}

	now := s.now()
	renderer := s.notifications.Renderer()
	views := make([]model.NotificationView, 0, len(pending))
	for _, n := range pending {
		if !n.WellFormed() {
			continue
		}
		view := model.NotificationView{
			PendingNotification: *n,
			DateLabel:           calendar.AdminLabel(n.Date, now),
			LongDate:            calendar.LongDate(n.Date, now.Location()),
			DisplayPhone:        notifservice.DisplayPhone(n.PatientPhone, s.cfg.WhatsAppCountryCode),
		}
		if link := renderer.MessageLink(n.ContactLink); link != "" {
			view.MessageLink = link
		} else {
			view.ContactNote = notifservice.NoContactNote
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *adminService) MarkSent(ctx context.Context, id string) error {
	removed, err := s.notifications.Consume(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to mark notification as sent", "notification_id", id, "error", err)
		return apperrors.Internal("Failed to update notification", err)
	}
	if !removed {
		return nil
	}

	event := events.NotificationConsumed(id, s.clock.Now().UTC())
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "event_type", event.Type, "key", event.Key, "error", err)
	}
	return nil
}

func (s *adminService) loadBookings(ctx context.Context) ([]*model.Booking, error) {
	all, err := s.bookings.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}
	return all, nil
}

func (s *adminService) appointmentViews(bookings []*model.Booking, now time.Time) []model.AppointmentView {
	renderer := s.notifications.Renderer()
	views := make([]model.AppointmentView, 0, len(bookings))
	for _, b := range bookings {
		link := renderer.ContactLink(b.PatientPhone)
		view := model.AppointmentView{
			Booking:      *b,
			DateLabel:    calendar.AdminLabel(b.Date, now),
			DisplayPhone: notifservice.DisplayPhone(b.PatientPhone, s.cfg.WhatsAppCountryCode),
			ContactLink:  link,
		}
		if msg := renderer.MessageLink(link); msg != "" {
			view.MessageLink = msg
		} else {
			view.ContactNote = notifservice.NoContactNote
		}
		views = append(views, view)
	}
	return views
}

func (s *adminService) now() time.Time {
	now := s.clock.Now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	return now
}

// wellFormed drops records missing the fields every admin view needs.
func wellFormed(bookings []*model.Booking) []*model.Booking {
	out := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.WellFormed() {
			out = append(out, b)
		}
	}
	return out
}
