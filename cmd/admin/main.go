package main

import (
	"clinicbook/internal/admin/handler"
	"clinicbook/internal/admin/service"
	"clinicbook/internal/events"
	notifservice "clinicbook/internal/notifications/service"
	"clinicbook/internal/storage"
	"clinicbook/pkg/app"
	"clinicbook/pkg/calendar"
	"clinicbook/pkg/config"
)

const ServiceName = "admin"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Admin service")

	if err := storage.RequireShared(cfg.StoreDriver); err != nil {
		cfg.Log.Fatal("Admin service needs a shared store, run cmd/clinic for the memory driver", "error", err)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open store", "error", err, "driver", cfg.StoreDriver)
	}

	publisher, err := events.New(cfg.EventsEnabled, cfg.KafkaBookingTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	clock := calendar.SystemClock{Location: cfg.Location}
	adminService := service.NewAdminService(
		store.Bookings,
		notifservice.NewNotificationService(store.Notifications, clock, cfg),
		publisher,
		clock,
		cfg,
	)
	cfg.Log.Info("Admin service initialized", "driver", store.Driver)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAdminHandler(adminService, cfg.Log), store, publisher)
	serverApp.Run()
}
