package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"clinicbook/pkg/client"
	"clinicbook/pkg/config"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDriver:  driver,
		SQLitePath:   filepath.Join(t.TempDir(), "clinic.db"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Log:          logger.Nop(),
		Client:       client.NewClient(),
	}
}

func TestOpen(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			store, err := Open(cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			t.Cleanup(cfg.GracefulShutdown)

			ctx := context.Background()
			if err := store.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}

			b := &model.Booking{
				Date:             "2025-03-03",
				Time:             "10:00 AM",
				PatientName:      "Asha",
				ConsultationType: model.Video,
				CreatedAt:        time.Now().UTC(),
			}
			if err := store.Bookings.Create(ctx, b); err != nil {
				t.Fatalf("Create: %v", err)
			}
			all, err := store.Bookings.FindAll(ctx)
			if err != nil || len(all) != 1 {
				t.Fatalf("FindAll: %v, %d bookings", err, len(all))
			}

			if n, err := store.Notifications.Count(ctx); err != nil || n != 0 {
				t.Errorf("Count: %v, %d", err, n)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(testConfig(t, "redis")); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestRequireShared(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{driver: config.StoreMongo},
		{driver: config.StoreSQLite},
		{driver: config.StoreMemory, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			err := RequireShared(tt.driver)
			if tt.wantErr != (err != nil) {
				t.Fatalf("RequireShared(%q) = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrProcessLocal) {
				t.Errorf("expected ErrProcessLocal, got %v", err)
			}
		})
	}
}
