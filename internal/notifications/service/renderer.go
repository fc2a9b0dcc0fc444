package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"clinicbook/pkg/calendar"
	"clinicbook/pkg/model"
	"clinicbook/pkg/sanitizer"
)

const (
	whatsAppBaseURL  = "https://wa.me/"
	reasonNotGiven   = "Not specified"
	phoneNotProvided = "Phone not provided"

	NoContactNote = "No phone number available - Cannot start WhatsApp call"
)

// Renderer produces the prerendered texts and links stored with every
// pending notification.
type Renderer struct {
	CountryCode string
	ClinicPhone string
	DoctorName  string
	Location    *time.Location
}

// ContactLink builds the WhatsApp deep link for phone. A phone without any
// digits yields model.NoContactLink.
func (r Renderer) ContactLink(phone string) string {
	digits := sanitizer.DigitsOnly(phone)
	if digits == "" {
		return model.NoContactLink
	}
	return whatsAppBaseURL + r.CountryCode + digits
}

// MessageLink appends the doctor's greeting to a usable contact link and
// returns "" otherwise.
func (r Renderer) MessageLink(contactLink string) string {
	if contactLink == "" || contactLink == model.NoContactLink {
		return ""
	}
	greeting := fmt.Sprintf("Hello! This is %s. I am ready for our video consultation. Are you available now?", r.DoctorName)
	return contactLink + "?" + url.Values{"text": {greeting}}.Encode()
}

func (r Renderer) PatientMessage(b *model.Booking) string {
	var sb strings.Builder

	switch b.ConsultationType {
	case model.InPerson:
		fmt.Fprintf(&sb, "✅ In-clinic consultation confirmed with %s\n\n", r.DoctorName)
	default:
		fmt.Fprintf(&sb, "✅ Video consultation confirmed with %s\n\n", r.DoctorName)
	}

	fmt.Fprintf(&sb, "📅 Date: %s\n", calendar.LongDate(b.Date, r.Location))
	fmt.Fprintf(&sb, "⏰ Time: %s\n\n", b.Time)

	switch b.ConsultationType {
	case model.InPerson:
		sb.WriteString("Please arrive 10 minutes before your appointment and bring any previous prescriptions or reports.\n\n")
	default:
		sb.WriteString("The doctor will call you on WhatsApp video at the scheduled time. Please ensure:\n")
		sb.WriteString("- Your phone is charged\n")
		sb.WriteString("- You have a stable internet connection\n")
		sb.WriteString("- WhatsApp video calling is working\n\n")
	}

	fmt.Fprintf(&sb, "For any changes, call: %s\n\n", r.ClinicPhone)
	sb.WriteString("Thank you! 🏥")
	return sb.String()
}

func (r Renderer) DoctorSummary(b *model.Booking, contactLink string) string {
	var sb strings.Builder

	switch b.ConsultationType {
	case model.InPerson:
		sb.WriteString("New In-Clinic Consultation Booked\n\n")
	default:
		sb.WriteString("New WhatsApp Video Consultation Booked\n\n")
	}

	phone := b.PatientPhone
	if strings.TrimSpace(phone) == "" {
		phone = phoneNotProvided
	}
	reason := b.Reason
	if strings.TrimSpace(reason) == "" {
		reason = reasonNotGiven
	}

	sb.WriteString("Patient Details:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", b.PatientName)
	fmt.Fprintf(&sb, "- Phone: %s\n", phone)
	if b.PatientEmail != "" {
		fmt.Fprintf(&sb, "- Email: %s\n", b.PatientEmail)
	}
	fmt.Fprintf(&sb, "- Date: %s\n", calendar.LongDate(b.Date, r.Location))
	fmt.Fprintf(&sb, "- Time: %s\n", b.Time)
	fmt.Fprintf(&sb, "- Reason: %s\n\n", reason)

	if contactLink == model.NoContactLink {
		sb.WriteString(NoContactNote)
	} else {
		fmt.Fprintf(&sb, "WhatsApp Link: %s", contactLink)
	}
	return sb.String()
}

// Notification derives the queue entry for a committed booking.
func (r Renderer) Notification(id string, b *model.Booking, now time.Time) *model.PendingNotification {
	link := r.ContactLink(b.PatientPhone)
	return &model.PendingNotification{
		ID:               id,
		Date:             b.Date,
		Time:             b.Time,
		PatientName:      b.PatientName,
		PatientPhone:     b.PatientPhone,
		ConsultationType: b.ConsultationType,
		PatientMessage:   r.PatientMessage(b),
		DoctorSummary:    r.DoctorSummary(b, link),
		ContactLink:      link,
		CreatedAt:        now,
	}
}

// DisplayPhone is the phone shown in admin listings.
func DisplayPhone(phone, countryCode string) string {
	if strings.TrimSpace(phone) == "" {
		return phoneNotProvided
	}
	return sanitizer.FormatForDisplay(phone, countryCode)
}
