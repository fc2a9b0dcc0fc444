package model

// AppointmentView is a booking as listed to the administrator. Either
// MessageLink or ContactNote is set, never both.
type AppointmentView struct {
	Booking
	DateLabel    string `json:"date_label"`
	DisplayPhone string `json:"display_phone"`
	ContactLink  string `json:"contact_link"`
	MessageLink  string `json:"message_link,omitempty"`
	ContactNote  string `json:"contact_note,omitempty"`
}

type NotificationView struct {
	PendingNotification
	DateLabel    string `json:"date_label"`
	LongDate     string `json:"long_date"`
	DisplayPhone string `json:"display_phone"`
	MessageLink  string `json:"message_link,omitempty"`
	ContactNote  string `json:"contact_note,omitempty"`
}

type Dashboard struct {
	TotalBookings  int               `json:"total_bookings"`
	TodayCount     int               `json:"today_count"`
	WeekCount      int               `json:"week_count"`
	PendingCount   int64             `json:"pending_count"`
	RecentBookings []AppointmentView `json:"recent_bookings"`
}
