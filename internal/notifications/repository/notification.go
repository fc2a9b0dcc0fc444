package repository

import (
	"context"

	"clinicbook/pkg/model"
)

const CollectionName = "Pending_notifications"

// NotificationRepository is the pending notification queue. Entries carry
// their own ID; FindAll returns them in enqueue order and Delete reports
// whether an entry was removed.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.PendingNotification) error
	FindAll(ctx context.Context) ([]*model.PendingNotification, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
