package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"clinicbook/pkg/model"
)

func testRenderer(t *testing.T) Renderer {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return Renderer{
		CountryCode: "91",
		ClinicPhone: "+91 84009 86113",
		DoctorName:  "Dr. Prashant Agrawal",
		Location:    loc,
	}
}

func TestRenderer_ContactLink(t *testing.T) {
	r := testRenderer(t)

	tests := []struct {
		phone string
		want  string
	}{
		{phone: "98765 43210", want: "https://wa.me/919876543210"},
		{phone: "(987) 654-3210", want: "https://wa.me/919876543210"},
		{phone: "+91-98765-43210", want: "https://wa.me/91919876543210"},
		{phone: "", want: model.NoContactLink},
		{phone: "n/a", want: model.NoContactLink},
	}

	for _, tt := range tests {
		if got := r.ContactLink(tt.phone); got != tt.want {
			t.Errorf("ContactLink(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestRenderer_MessageLink(t *testing.T) {
	r := testRenderer(t)

	if got := r.MessageLink(model.NoContactLink); got != "" {
		t.Errorf("expected no message link for sentinel, got %q", got)
	}
	if got := r.MessageLink(""); got != "" {
		t.Errorf("expected no message link for empty link, got %q", got)
	}

	got := r.MessageLink("https://wa.me/919876543210")
	base, query, ok := strings.Cut(got, "?")
	if !ok || base != "https://wa.me/919876543210" {
		t.Fatalf("unexpected message link %q", got)
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("unparseable query: %v", err)
	}
	want := "Hello! This is Dr. Prashant Agrawal. I am ready for our video consultation. Are you available now?"
	if values.Get("text") != want {
		t.Errorf("text = %q, want %q", values.Get("text"), want)
	}
}

func TestRenderer_PatientMessage(t *testing.T) {
	r := testRenderer(t)
	b := &model.Booking{Date: "2025-03-03", Time: "10:00 AM", PatientName: "Asha", ConsultationType: model.Video}

	video := r.PatientMessage(b)
	for _, want := range []string{"Video consultation confirmed with Dr. Prashant Agrawal", "Monday, March 03, 2025", "10:00 AM", "+91 84009 86113", "WhatsApp video"} {
		if !strings.Contains(video, want) {
			t.Errorf("video message missing %q:\n%s", want, video)
		}
	}

	b.ConsultationType = model.InPerson
	b.Time = "12:15 PM"
	inPerson := r.PatientMessage(b)
	if strings.Contains(inPerson, "WhatsApp video") {
		t.Errorf("in-person message should not mention video calling:\n%s", inPerson)
	}
	if !strings.Contains(inPerson, "In-clinic consultation confirmed") || !strings.Contains(inPerson, "12:15 PM") {
		t.Errorf("unexpected in-person message:\n%s", inPerson)
	}
}

func TestRenderer_DoctorSummary(t *testing.T) {
	r := testRenderer(t)
	b := &model.Booking{Date: "2025-03-03", Time: "10:00 AM", PatientName: "Asha", PatientPhone: "98765 43210", ConsultationType: model.Video}

	summary := r.DoctorSummary(b, r.ContactLink(b.PatientPhone))
	for _, want := range []string{"- Name: Asha", "- Phone: 98765 43210", "- Reason: Not specified", "WhatsApp Link: https://wa.me/919876543210"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	b.PatientPhone = ""
	b.Reason = "Knee pain"
	summary = r.DoctorSummary(b, r.ContactLink(b.PatientPhone))
	for _, want := range []string{"- Phone: Phone not provided", "- Reason: Knee pain", NoContactNote} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "wa.me") {
		t.Errorf("summary must not contain a broken link:\n%s", summary)
	}
}

func TestRenderer_InvalidStoredDate(t *testing.T) {
	r := testRenderer(t)
	b := &model.Booking{Date: "someday", Time: "10:00 AM", PatientName: "Asha", ConsultationType: model.Video}

	if msg := r.PatientMessage(b); !strings.Contains(msg, "Invalid Date") {
		t.Errorf("expected Invalid Date fallback:\n%s", msg)
	}
}

func TestDisplayPhone(t *testing.T) {
	if got := DisplayPhone("", "91"); got != "Phone not provided" {
		t.Errorf("DisplayPhone(\"\") = %q", got)
	}
	if got := DisplayPhone("98765 43210", "91"); got != "+91 98765 43210" {
		t.Errorf("DisplayPhone = %q", got)
	}
}
