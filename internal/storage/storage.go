// Package storage opens the repositories for the configured store driver.
package storage

import (
	"context"
	"errors"
	"fmt"

	bookingsrepo "clinicbook/internal/bookings/repository"
	sqlitemigration "clinicbook/internal/migrations/sqlite"
	notifrepo "clinicbook/internal/notifications/repository"
	"clinicbook/pkg/config"
)

// ErrProcessLocal is returned for drivers whose data is not visible to
// other processes.
var ErrProcessLocal = errors.New("store driver keeps data inside one process")

type Store struct {
	Driver        string
	Bookings      bookingsrepo.BookingRepository
	Notifications notifrepo.NotificationRepository
}

// Open connects the client for cfg.StoreDriver and builds both
// repositories on it. The sqlite driver migrates its schema first; Mongo
// collections are prepared by the migrate job.
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		cfg.SetMongo()
		return &Store{
			Driver:        cfg.StoreDriver,
			Bookings:      bookingsrepo.NewMongoBookingRepository(cfg),
			Notifications: notifrepo.NewMongoNotificationRepository(cfg),
		}, nil

	case config.StoreSQLite:
		cfg.SetSQLite()
		if err := sqlitemigration.RunMigration(cfg.Client.SQLite, cfg.Log); err != nil {
			return nil, err
		}
		return &Store{
			Driver:        cfg.StoreDriver,
			Bookings:      bookingsrepo.NewSQLiteBookingRepository(cfg),
			Notifications: notifrepo.NewSQLiteNotificationRepository(cfg),
		}, nil

	case config.StoreMemory:
		cfg.Log.Warn("Using in-memory store, bookings are lost on restart")
		return &Store{
			Driver:        cfg.StoreDriver,
			Bookings:      bookingsrepo.NewMemoryBookingRepository(),
			Notifications: notifrepo.NewMemoryNotificationRepository(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.StoreDriver)
	}
}

// Ping reports whether the booking store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Bookings.Ping(ctx)
}

// RequireShared rejects drivers that cannot be shared between the bookings
// and admin processes. Single-process deployments use cmd/clinic instead.
func RequireShared(driver string) error {
	if driver == config.StoreMemory {
		return fmt.Errorf("%w: %s", ErrProcessLocal, driver)
	}
	return nil
}
