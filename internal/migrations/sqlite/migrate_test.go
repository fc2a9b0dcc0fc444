package sqlite

import (
	"path/filepath"
	"testing"

	bookingsrepo "clinicbook/internal/bookings/repository"
	notifrepo "clinicbook/internal/notifications/repository"
	"clinicbook/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestRunMigration(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "clinic.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// Running twice must be harmless.
	for range 2 {
		if err := RunMigration(db, logger.Nop()); err != nil {
			t.Fatalf("RunMigration: %v", err)
		}
	}

	migrator := db.Migrator()
	if !migrator.HasTable(&bookingsrepo.BookingRecord{}) {
		t.Error("expected bookings table")
	}
	if !migrator.HasTable(&notifrepo.NotificationRecord{}) {
		t.Error("expected pending_notifications table")
	}
	if !migrator.HasIndex(&bookingsrepo.BookingRecord{}, "idx_bookings_slot") {
		t.Error("expected unique slot index")
	}
}
