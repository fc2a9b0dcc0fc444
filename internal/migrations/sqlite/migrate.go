package sqlite

import (
	"fmt"

	bookingsrepo "clinicbook/internal/bookings/repository"
	notifrepo "clinicbook/internal/notifications/repository"
	"clinicbook/pkg/logger"

	"gorm.io/gorm"
)

// Models lists every table the embedded store needs, in creation order.
func Models() []any {
	return []any{
		&bookingsrepo.BookingRecord{},
		&notifrepo.NotificationRecord{},
	}
}

// RunMigration creates or updates the tables and the unique slot index.
func RunMigration(db *gorm.DB, log *logger.Logger) error {
	log.Info("Running SQLite migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	log.Info("All migrations applied successfully")
	return nil
}
