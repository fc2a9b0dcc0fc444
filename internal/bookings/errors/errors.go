package errors

import (
	"errors"

	"clinicbook/internal/slots"
)

var (
	ErrNotFound = errors.New("booking not found")

	// ErrSlotConflict means another booking already holds the same date, time
	// and consultation type.
	ErrSlotConflict = errors.New("slot already booked")

	ErrPersistence = errors.New("booking persistence failed")

	ErrUnknownConsultationType = slots.ErrUnknownConsultationType

	// ErrDuplicateSlot is returned by a store whose unique slot index rejected
	// an insert.
	ErrDuplicateSlot = errors.New("duplicate slot in store")
)
