package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/client"
	"clinicbook/pkg/config"
	"clinicbook/pkg/model"

	"gorm.io/gorm"
)

// BookingRecord is the SQLite row for a booking. The composite unique index
// enforces one booking per slot at the storage level.
type BookingRecord struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	Date             string    `gorm:"not null;uniqueIndex:idx_bookings_slot,priority:1"`
	Time             string    `gorm:"not null;uniqueIndex:idx_bookings_slot,priority:3"`
	ConsultationType string    `gorm:"not null;uniqueIndex:idx_bookings_slot,priority:2"`
	PatientName      string    `gorm:"not null"`
	PatientPhone     string
	PatientEmail     string
	Reason           string
	CreatedAt        time.Time `gorm:"not null;index"`
}

func (BookingRecord) TableName() string {
	return "bookings"
}

func newBookingRecord(b *model.Booking) *BookingRecord {
	return &BookingRecord{
		Date:             b.Date,
		Time:             b.Time,
		ConsultationType: string(b.ConsultationType),
		PatientName:      b.PatientName,
		PatientPhone:     b.PatientPhone,
		PatientEmail:     b.PatientEmail,
		Reason:           b.Reason,
		CreatedAt:        b.CreatedAt,
	}
}

func (rec *BookingRecord) toModel() *model.Booking {
	return &model.Booking{
		ID:               strconv.FormatUint(uint64(rec.ID), 10),
		Date:             rec.Date,
		Time:             rec.Time,
		PatientName:      rec.PatientName,
		PatientPhone:     rec.PatientPhone,
		PatientEmail:     rec.PatientEmail,
		Reason:           rec.Reason,
		ConsultationType: model.ConsultationType(rec.ConsultationType),
		CreatedAt:        rec.CreatedAt.UTC(),
	}
}

type sqliteBookingRepository struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewSQLiteBookingRepository(cfg *config.Config) BookingRepository {
	return &sqliteBookingRepository{
		cfg: cfg,
		db:  cfg.Client.SQLite,
	}
}

func (r *sqliteBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rec := newBookingRecord(booking)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateSlot, booking.Slot().Key())
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = strconv.FormatUint(uint64(rec.ID), 10)
	return nil
}

func (r *sqliteBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var records []BookingRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(records))
	for i := range records {
		bookings = append(bookings, records[i].toModel())
	}
	return bookings, nil
}

func (r *sqliteBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	pk, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}

	result := r.db.WithContext(ctx).Delete(&BookingRecord{}, pk)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *sqliteBookingRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return nil
}

// IsUniqueViolation recognizes a unique index rejection whether or not the
// dialector translated it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
