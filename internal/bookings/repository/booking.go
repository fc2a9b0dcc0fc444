package repository

import (
	"context"

	"clinicbook/pkg/model"
)

const CollectionName = "Bookings"

// BookingRepository is the Booking Store. Create assigns the ID and must
// reject a second booking for an occupied slot with ErrDuplicateSlot. FindAll
// returns every booking in insertion order and observes all completed writes.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindAll(ctx context.Context) ([]*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
