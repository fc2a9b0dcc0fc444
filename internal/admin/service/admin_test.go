package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	bookingsrepo "clinicbook/internal/bookings/repository"
	"clinicbook/internal/events"
	notifrepo "clinicbook/internal/notifications/repository"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type brokenBookingRepo struct {
	bookingsrepo.BookingRepository
}

func (brokenBookingRepo) FindAll(context.Context) ([]*model.Booking, error) {
	return nil, errors.New("connection reset")
}

type fixture struct {
	svc       AdminService
	bookings  bookingsrepo.BookingRepository
	queue     notifservice.NotificationService
	publisher *recordingPublisher
	now       time.Time
}

// newFixture runs on Monday 2025-03-03 10:00 UTC.
func newFixture(t *testing.T, bookings bookingsrepo.BookingRepository) *fixture {
	t.Helper()
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	clock := calendar.FixedClock(now)
	cfg := &config.Config{
		Location:            time.UTC,
		WhatsAppCountryCode: "91",
		ClinicContactPhone:  "+91 84009 86113",
		DoctorName:          "Dr. Prashant Agrawal",
		RecentBookingsLimit: 3,
		WriteTimeout:        time.Second,
		Log:                 logger.Nop(),
	}

	queue := notifservice.NewNotificationService(notifrepo.NewMemoryNotificationRepository(), clock, cfg)
	publisher := &recordingPublisher{}
	return &fixture{
		svc:       NewAdminService(bookings, queue, publisher, clock, cfg),
		bookings:  bookings,
		queue:     queue,
		publisher: publisher,
		now:       now,
	}
}

func (f *fixture) seed(t *testing.T, date, slot, name, phone string, createdAt time.Time) *model.Booking {
	t.Helper()
	b := &model.Booking{
		Date:             date,
		Time:             slot,
		PatientName:      name,
		PatientPhone:     phone,
		ConsultationType: model.Video,
		CreatedAt:        createdAt,
	}
	if err := f.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed %s %s: %v", date, slot, err)
	}
	return b
}

func times(views []model.AppointmentView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Date + " " + v.Time
	}
	return out
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
	base := f.now.Add(-24 * time.Hour)

	f.seed(t, "2025-03-03", "02:00 PM", "Asha", "98765 43210", base.Add(1*time.Minute))
	f.seed(t, "2025-03-03", "09:00 AM", "Ravi", "", base.Add(5*time.Minute))
	f.seed(t, "2025-03-04", "10:00 AM", "Meera", "1", base.Add(3*time.Minute))
	f.seed(t, "2025-02-25", "10:00 AM", "Kiran", "1", base.Add(2*time.Minute))
	f.seed(t, "2025-02-20", "10:00 AM", "Old", "1", base)
	f.seed(t, "2025-03-05", "10:00 AM", "", "1", base.Add(9*time.Minute))

	for _, b := range []*model.Booking{{Date: "2025-03-03", Time: "02:00 PM", PatientName: "Asha"}, {Date: "2025-03-04", Time: "10:00 AM", PatientName: "Meera"}} {
		if _, err := f.queue.Enqueue(context.Background(), b); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	d, err := f.svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if d.TotalBookings != 6 {
		t.Errorf("expected 6 total, got %d", d.TotalBookings)
	}
	if d.TodayCount != 2 {
		t.Errorf("expected 2 today, got %d", d.TodayCount)
	}
	if d.WeekCount != 4 {
		t.Errorf("expected 4 this week, got %d", d.WeekCount)
	}
	if d.PendingCount != 2 {
		t.Errorf("expected 2 pending, got %d", d.PendingCount)
	}

	var names []string
	for _, r := range d.RecentBookings {
		names = append(names, r.PatientName)
	}
	if strings.Join(names, ",") != "Ravi,Meera,Kiran" {
		t.Errorf("unexpected recent order %v", names)
	}
}

func TestDashboard_WeekWindowBoundary(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{date: "2025-02-23", want: 0},
		{date: "2025-02-24", want: 0},
		{date: "2025-02-25", want: 1},
		{date: "2025-03-10", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
			f.seed(t, tt.date, "10:00 AM", "Asha", "1", f.now)

			d, err := f.svc.Dashboard(context.Background())
			if err != nil {
				t.Fatalf("Dashboard: %v", err)
			}
			if d.WeekCount != tt.want {
				t.Errorf("WeekCount for %s: got %d, want %d", tt.date, d.WeekCount, tt.want)
			}
		})
	}
}

func TestDashboard_RecentTiesKeepStoreOrder(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
	at := f.now.Add(-time.Hour)

	f.seed(t, "2025-03-03", "09:00 AM", "First", "1", at)
	f.seed(t, "2025-03-03", "09:30 AM", "Second", "1", at)

	d, err := f.svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.RecentBookings[0].PatientName != "First" || d.RecentBookings[1].PatientName != "Second" {
		t.Errorf("expected store order on ties, got %+v", d.RecentBookings)
	}
}

func TestTodayAppointments_SortedByTime(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())

	f.seed(t, "2025-03-03", "02:00 PM", "Asha", "1", f.now)
	f.seed(t, "2025-03-04", "08:00 AM", "Tomorrow", "1", f.now)
	f.seed(t, "2025-03-03", "09:00 AM", "Ravi", "1", f.now)
	f.seed(t, "2025-03-03", "11:30 AM", "", "1", f.now)

	views, err := f.svc.TodayAppointments(context.Background())
	if err != nil {
		t.Fatalf("TodayAppointments: %v", err)
	}

	got := strings.Join(times(views), ",")
	if got != "2025-03-03 09:00 AM,2025-03-03 02:00 PM" {
		t.Errorf("unexpected order %s", got)
	}
	for _, v := range views {
		if v.DateLabel != calendar.LabelToday {
			t.Errorf("expected Today label, got %q", v.DateLabel)
		}
	}
}

func TestTodayAppointments_UnparseableTimeDoesNotFail(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())

	f.seed(t, "2025-03-03", "soon", "Asha", "1", f.now)
	f.seed(t, "2025-03-03", "09:00 AM", "Ravi", "1", f.now)

	views, err := f.svc.TodayAppointments(context.Background())
	if err != nil {
		t.Fatalf("TodayAppointments: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected both entries, got %d", len(views))
	}
}

func TestAllAppointments_SortedByDate(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())

	f.seed(t, "2025-03-05", "10:00 AM", "Later", "1", f.now)
	f.seed(t, "2025-03-03", "10:00 AM", "Today", "1", f.now)
	f.seed(t, "2025-03-04", "10:00 AM", "Tomorrow", "1", f.now)
	f.seed(t, "2025-03-01", "10:00 AM", "", "1", f.now)

	views, err := f.svc.AllAppointments(context.Background())
	if err != nil {
		t.Fatalf("AllAppointments: %v", err)
	}

	wantLabels := []string{"Today", "Tomorrow", "Mar 05, 2025"}
	if len(views) != len(wantLabels) {
		t.Fatalf("expected %d views, got %v", len(wantLabels), times(views))
	}
	for i, want := range wantLabels {
		if views[i].DateLabel != want {
			t.Errorf("view %d: label %q, want %q", i, views[i].DateLabel, want)
		}
	}
}

func TestAllAppointments_InvalidDateLabel(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
	f.seed(t, "someday", "10:00 AM", "Asha", "1", f.now)

	views, err := f.svc.AllAppointments(context.Background())
	if err != nil {
		t.Fatalf("AllAppointments: %v", err)
	}
	if len(views) != 1 || views[0].DateLabel != calendar.InvalidDate {
		t.Errorf("expected Invalid Date label, got %+v", views)
	}
}

func TestAppointmentViews_ContactLinks(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())

	f.seed(t, "2025-03-03", "09:00 AM", "Asha", "98765 43210", f.now)
	f.seed(t, "2025-03-03", "09:30 AM", "Ravi", "", f.now)

	views, err := f.svc.AllAppointments(context.Background())
	if err != nil {
		t.Fatalf("AllAppointments: %v", err)
	}

	withPhone, withoutPhone := views[0], views[1]
	if withPhone.ContactLink != "https://wa.me/919876543210" {
		t.Errorf("unexpected contact link %q", withPhone.ContactLink)
	}
	if !strings.HasPrefix(withPhone.MessageLink, "https://wa.me/919876543210?text=") || withPhone.ContactNote != "" {
		t.Errorf("unexpected message link %q note %q", withPhone.MessageLink, withPhone.ContactNote)
	}

	if withoutPhone.ContactLink != model.NoContactLink || withoutPhone.MessageLink != "" {
		t.Errorf("expected sentinel without message link, got %+v", withoutPhone)
	}
	if withoutPhone.ContactNote != notifservice.NoContactNote {
		t.Errorf("unexpected note %q", withoutPhone.ContactNote)
	}
	if withoutPhone.DisplayPhone != "Phone not provided" {
		t.Errorf("unexpected display phone %q", withoutPhone.DisplayPhone)
	}
}

func TestPendingNotifications(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
	ctx := context.Background()

	first, err := f.queue.Enqueue(ctx, &model.Booking{Date: "2025-03-04", Time: "10:00 AM", PatientName: "Asha", PatientPhone: "98765 43210", ConsultationType: model.Video})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := f.queue.Enqueue(ctx, &model.Booking{Date: "2025-03-04", Time: "10:30 AM", PatientName: "Ravi", ConsultationType: model.Video}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	views, err := f.svc.PendingNotifications(ctx)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	if views[0].ID != first.ID || views[0].DateLabel != calendar.LabelTomorrow {
		t.Errorf("unexpected first view %+v", views[0])
	}
	if views[0].LongDate != "Tuesday, March 04, 2025" {
		t.Errorf("unexpected long date %q", views[0].LongDate)
	}
	if views[0].MessageLink == "" || views[0].ContactNote != "" {
		t.Errorf("expected message link, got %+v", views[0])
	}
	if views[1].MessageLink != "" || views[1].ContactNote != notifservice.NoContactNote {
		t.Errorf("expected contact note for missing phone, got %+v", views[1])
	}
}

func TestMarkSent(t *testing.T) {
	f := newFixture(t, bookingsrepo.NewMemoryBookingRepository())
	ctx := context.Background()

	n, err := f.queue.Enqueue(ctx, &model.Booking{Date: "2025-03-04", Time: "10:00 AM", PatientName: "Asha", ConsultationType: model.Video})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := f.svc.MarkSent(ctx, n.ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if count, _ := f.queue.Count(ctx); count != 0 {
		t.Errorf("expected empty queue, got %d", count)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.TypeNotificationConsumed || f.publisher.events[0].Key != n.ID {
		t.Errorf("expected one notification.consumed event, got %+v", f.publisher.events)
	}

	for _, id := range []string{n.ID, "unknown", ""} {
		if err := f.svc.MarkSent(ctx, id); err != nil {
			t.Errorf("MarkSent(%q): expected no-op, got %v", id, err)
		}
	}
	if len(f.publisher.events) != 1 {
		t.Errorf("no-op consumption must not publish, got %d events", len(f.publisher.events))
	}
}

func TestStoreFailure(t *testing.T) {
	f := newFixture(t, brokenBookingRepo{bookingsrepo.NewMemoryBookingRepository()})
	ctx := context.Background()

	calls := map[string]func() error{
		"dashboard": func() error { _, err := f.svc.Dashboard(ctx); return err },
		"today":     func() error { _, err := f.svc.TodayAppointments(ctx); return err },
		"all":       func() error { _, err := f.svc.AllAppointments(ctx); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			appErr := apperrors.AsAppError(err)
			if err == nil || appErr.StatusCode() != http.StatusInternalServerError {
				t.Errorf("expected internal error, got %v", err)
			}
		})
	}
}
