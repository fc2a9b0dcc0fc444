// Package calendar holds the date arithmetic shared by the booking and admin
// services. Dates cross service boundaries as yyyy-MM-dd strings and slot
// times as fixed 12-hour labels such as "09:30 AM"; neither carries a zone.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	SlotLayout      = "03:04 PM"
	ShortDateLayout = "Mon, 02 Jan"
	AdminDateLayout = "Jan 02, 2006"
	LongDateLayout  = "Monday, January 02, 2006"

	LabelToday    = "Today"
	LabelTomorrow = "Tomorrow"
	InvalidDate   = "Invalid Date"
)

var (
	ErrUnparseableDate = errors.New("unparseable date")
	ErrUnparseableTime = errors.New("unparseable time")
)

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in the clinic's location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

type DayKind int

const (
	OtherDay DayKind = iota
	Today
	Tomorrow
)

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Window returns n consecutive calendar days starting with the day of from.
func Window(from time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	start := StartOfDay(from)
	days := make([]time.Time, 0, n)
	for i := range n {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func Classify(date, now time.Time) DayKind {
	switch {
	case SameDay(date, now):
		return Today
	case SameDay(date, now.AddDate(0, 0, 1)):
		return Tomorrow
	default:
		return OtherDay
	}
}

// CompareDays orders two instants by calendar day only.
func CompareDays(a, b time.Time) int {
	da, db := StartOfDay(a), StartOfDay(b.In(a.Location()))
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseSlotTime converts a slot label into its offset from midnight.
func ParseSlotTime(label string) (time.Duration, error) {
	t, err := time.Parse(SlotLayout, strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, label)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// DayLabel is the label used on the patient date picker.
func DayLabel(date, now time.Time) string {
	switch Classify(date, now) {
	case Today:
		return LabelToday
	case Tomorrow:
		return LabelTomorrow
	default:
		return date.Format(ShortDateLayout)
	}
}

// AdminLabel labels a stored date for the admin listings. Unparseable input
// yields InvalidDate instead of an error.
func AdminLabel(date string, now time.Time) string {
	t, err := ParseDate(date, now.Location())
	if err != nil {
		return InvalidDate
	}
	switch Classify(t, now) {
	case Today:
		return LabelToday
	case Tomorrow:
		return LabelTomorrow
	default:
		return t.Format(AdminDateLayout)
	}
}

func LongDate(date string, loc *time.Location) string {
	t, err := ParseDate(date, loc)
	if err != nil {
		return InvalidDate
	}
	return t.Format(LongDateLayout)
}
