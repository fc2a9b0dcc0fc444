package repository

import (
	"context"
	"fmt"
	"sync"

	"clinicbook/pkg/model"
)

type memoryNotificationRepository struct {
	mu      sync.RWMutex
	entries []*model.PendingNotification
}

func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{}
}

func (r *memoryNotificationRepository) Create(_ context.Context, n *model.PendingNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == n.ID {
			return fmt.Errorf("notification %s already queued", n.ID)
		}
	}
	stored := *n
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *memoryNotificationRepository) FindAll(_ context.Context) ([]*model.PendingNotification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.PendingNotification, 0, len(r.entries))
	for _, e := range r.entries {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (r *memoryNotificationRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryNotificationRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}
