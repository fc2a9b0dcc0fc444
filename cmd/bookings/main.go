package main

import (
	"clinicbook/internal/bookings/handler"
	"clinicbook/internal/bookings/service"
	"clinicbook/internal/bookings/validator"
	"clinicbook/internal/events"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/internal/storage"
	"clinicbook/pkg/app"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service")

	if err := storage.RequireShared(cfg.StoreDriver); err != nil {
		cfg.Log.Fatal("Bookings service needs a shared store, run cmd/clinic for the memory driver", "error", err)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open store", "error", err, "driver", cfg.StoreDriver)
	}

	publisher, err := events.New(cfg.EventsEnabled, cfg.KafkaBookingTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	bookingService := initServices(cfg, store, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), store, publisher)
	serverApp.Run()
}

func initServices(cfg *config.Config, store *storage.Store, publisher events.Publisher) service.BookingService {
	clock := calendar.SystemClock{Location: cfg.Location}
	notificationService := notifservice.NewNotificationService(store.Notifications, clock, cfg)
	bookingService := service.NewBookingService(
		store.Bookings,
		notificationService,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		clock,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "driver", store.Driver, "timezone", cfg.ClinicTimezone)
	return bookingService
}
