// Command clinic serves the patient and admin APIs from one process over a
// single store. It is the only entry point that supports the memory driver,
// since separate processes cannot share in-memory repositories.
package main

import (
	adminhandler "clinicbook/internal/admin/handler"
	adminservice "clinicbook/internal/admin/service"
	bookinghandler "clinicbook/internal/bookings/handler"
	bookingservice "clinicbook/internal/bookings/service"
	"clinicbook/internal/bookings/validator"
	"clinicbook/internal/events"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/internal/storage"
	"clinicbook/pkg/app"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
	"clinicbook/pkg/contracts"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "clinic"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Clinic service")

	store, err := storage.Open(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open store", "error", err, "driver", cfg.StoreDriver)
	}

	publisher, err := events.New(cfg.EventsEnabled, cfg.KafkaBookingTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	clock := calendar.SystemClock{Location: cfg.Location}
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(newHandler(cfg, store, publisher, clock), store, publisher)
	serverApp.Run()
}

type routes []contracts.Handler

func (rs routes) RegisterRoutes(router *httprouter.Router) {
	for _, h := range rs {
		h.RegisterRoutes(router)
	}
}

// newHandler builds both APIs on one notification queue so pending entries
// written by a booking are visible to the admin views.
func newHandler(cfg *config.Config, store *storage.Store, publisher events.Publisher, clock calendar.Clock) contracts.Handler {
	queue := notifservice.NewNotificationService(store.Notifications, clock, cfg)

	bookings := bookingservice.NewBookingService(
		store.Bookings,
		queue,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		clock,
		cfg,
	)
	admin := adminservice.NewAdminService(store.Bookings, queue, publisher, clock, cfg)

	cfg.Log.Info("Clinic services initialized", "driver", store.Driver, "timezone", cfg.ClinicTimezone)
	return routes{
		bookinghandler.NewBookingHandler(bookings, cfg.Log),
		adminhandler.NewAdminHandler(admin, cfg.Log),
	}
}
