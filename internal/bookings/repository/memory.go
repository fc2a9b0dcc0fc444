package repository

import (
	"context"
	"fmt"
	"sync"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/model"

	"github.com/google/uuid"
)

// memoryBookingRepository keeps bookings in process. It backs the memory
// store driver and the service tests.
type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []*model.Booking
	occupied map[string]string
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		occupied: make(map[string]string),
	}
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := booking.Slot().Key()
	if _, taken := r.occupied[key]; taken {
		return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateSlot, key)
	}

	booking.ID = uuid.NewString()
	stored := *booking
	r.bookings = append(r.bookings, &stored)
	r.occupied[key] = booking.ID
	return nil
}

func (r *memoryBookingRepository) FindAll(_ context.Context) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		c := *b
		bookings = append(bookings, &c)
	}
	return bookings, nil
}

func (r *memoryBookingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.bookings {
		if b.ID == id {
			delete(r.occupied, b.Slot().Key())
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (r *memoryBookingRepository) Ping(_ context.Context) error {
	return nil
}
