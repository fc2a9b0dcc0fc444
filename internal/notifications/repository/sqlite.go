package repository

import (
	"context"
	"fmt"
	"time"

	"clinicbook/pkg/client"
	"clinicbook/pkg/config"
	"clinicbook/pkg/model"

	"gorm.io/gorm"
)

// NotificationRecord is the SQLite row for a pending notification. Seq keeps
// enqueue order independent of clock resolution.
type NotificationRecord struct {
	Seq              uint      `gorm:"primaryKey;autoIncrement"`
	ID               string    `gorm:"uniqueIndex;not null"`
	Date             string    `gorm:"not null"`
	Time             string    `gorm:"not null"`
	PatientName      string    `gorm:"not null"`
	PatientPhone     string
	ConsultationType string    `gorm:"not null"`
	PatientMessage   string    `gorm:"type:text"`
	DoctorSummary    string    `gorm:"type:text"`
	ContactLink      string    `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

func (NotificationRecord) TableName() string {
	return "pending_notifications"
}

func (rec *NotificationRecord) toModel() *model.PendingNotification {
	return &model.PendingNotification{
		ID:               rec.ID,
		Date:             rec.Date,
		Time:             rec.Time,
		PatientName:      rec.PatientName,
		PatientPhone:     rec.PatientPhone,
		ConsultationType: model.ConsultationType(rec.ConsultationType),
		PatientMessage:   rec.PatientMessage,
		DoctorSummary:    rec.DoctorSummary,
		ContactLink:      rec.ContactLink,
		CreatedAt:        rec.CreatedAt.UTC(),
	}
}

type sqliteNotificationRepository struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewSQLiteNotificationRepository(cfg *config.Config) NotificationRepository {
	return &sqliteNotificationRepository{
		cfg: cfg,
		db:  cfg.Client.SQLite,
	}
}

func (r *sqliteNotificationRepository) Create(ctx context.Context, n *model.PendingNotification) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rec := &NotificationRecord{
		ID:               n.ID,
		Date:             n.Date,
		Time:             n.Time,
		PatientName:      n.PatientName,
		PatientPhone:     n.PatientPhone,
		ConsultationType: string(n.ConsultationType),
		PatientMessage:   n.PatientMessage,
		DoctorSummary:    n.DoctorSummary,
		ContactLink:      n.ContactLink,
		CreatedAt:        n.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepository) FindAll(ctx context.Context) ([]*model.PendingNotification, error) {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var records []NotificationRecord
	if err := r.db.WithContext(ctx).Order("seq asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}

	out := make([]*model.PendingNotification, 0, len(records))
	for i := range records {
		out = append(out, records[i].toModel())
	}
	return out, nil
}

func (r *sqliteNotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&NotificationRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *sqliteNotificationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).Model(&NotificationRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
