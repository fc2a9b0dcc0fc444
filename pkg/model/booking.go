package model

import (
	"strings"
	"time"
)

type Booking struct {
	ID               string           `json:"id,omitempty" bson:"_id,omitempty"`
	Date             string           `json:"date" bson:"date"`
	Time             string           `json:"time" bson:"time"`
	PatientName      string           `json:"patient_name" bson:"patient_name"`
	PatientPhone     string           `json:"patient_phone,omitempty" bson:"patient_phone"`
	PatientEmail     string           `json:"patient_email,omitempty" bson:"patient_email,omitempty"`
	Reason           string           `json:"reason,omitempty" bson:"reason,omitempty"`
	ConsultationType ConsultationType `json:"consultation_type" bson:"consultation_type"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

func (b *Booking) Slot() Slot {
	return Slot{Date: b.Date, Time: b.Time, ConsultationType: b.ConsultationType}
}

// WellFormed reports whether the record carries the fields every admin view
// relies on. Records read back from storage without them are skipped.
func (b *Booking) WellFormed() bool {
	return b != nil && strings.TrimSpace(b.PatientName) != "" && strings.TrimSpace(b.Date) != ""
}

type BookingRequest struct {
	Date             string `json:"date" validate:"required,booking_date"`
	Time             string `json:"time" validate:"required,slot_label"`
	ConsultationType string `json:"consultation_type" validate:"required,oneof=video in-person"`
	PatientName      string `json:"patient_name" validate:"required,min=1,max=100"`
	PatientPhone     string `json:"patient_phone" validate:"omitempty,max=32"`
	PatientEmail     string `json:"patient_email,omitempty" validate:"omitempty,email,max=254"`
	Reason           string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (r *BookingRequest) Slot() Slot {
	return Slot{Date: r.Date, Time: r.Time, ConsultationType: ConsultationType(r.ConsultationType)}
}
