package model

import (
	"strings"
	"time"
)

// NoContactLink marks a notification whose patient phone had no digits.
const NoContactLink = "#"

// PendingNotification holds a copy of the booking fields, not a reference to
// the booking, plus the prerendered messages the administrator sends by hand.
type PendingNotification struct {
	ID               string           `json:"id" bson:"_id"`
	Date             string           `json:"date" bson:"date"`
	Time             string           `json:"time" bson:"time"`
	PatientName      string           `json:"patient_name" bson:"patient_name"`
	PatientPhone     string           `json:"patient_phone" bson:"patient_phone"`
	ConsultationType ConsultationType `json:"consultation_type" bson:"consultation_type"`
	PatientMessage   string           `json:"patient_message" bson:"patient_message"`
	DoctorSummary    string           `json:"doctor_summary" bson:"doctor_summary"`
	ContactLink      string           `json:"contact_link" bson:"contact_link"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

func (n *PendingNotification) HasContactLink() bool {
	return n.ContactLink != "" && n.ContactLink != NoContactLink
}

func (n *PendingNotification) WellFormed() bool {
	return n != nil && strings.TrimSpace(n.PatientName) != "" && strings.TrimSpace(n.Date) != ""
}
