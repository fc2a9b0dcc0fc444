// Package slots is the fixed catalog of bookable time labels per
// consultation type and day of week.
package slots

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"clinicbook/pkg/model"
)

var ErrUnknownConsultationType = errors.New("unknown consultation type")

var (
	videoSlots = []string{
		"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
		"05:00 PM", "05:30 PM", "06:00 PM", "06:30 PM", "07:00 PM", "07:30 PM",
		"08:00 PM", "08:30 PM",
	}

	middayBlock = []string{
		"12:00 PM", "12:15 PM", "12:30 PM", "12:45 PM",
		"01:00 PM", "01:15 PM", "01:30 PM", "01:45 PM",
	}

	eveningBlock = []string{
		"07:30 PM", "07:45 PM", "08:00 PM", "08:15 PM", "08:30 PM", "08:45 PM",
	}

	knownLabels = func() map[string]struct{} {
		m := make(map[string]struct{})
		for _, block := range [][]string{videoSlots, middayBlock, eveningBlock} {
			for _, label := range block {
				m[label] = struct{}{}
			}
		}
		return m
	}()
)

// Candidates returns the ordered slot labels offered for t on date, before
// any booking is taken into account. The returned slice is owned by the
// caller.
func Candidates(t model.ConsultationType, date time.Time) ([]string, error) {
	switch t {
	case model.Video:
		return slices.Clone(videoSlots), nil
	case model.InPerson:
		return inPersonSlots(date.Weekday()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConsultationType, string(t))
	}
}

func inPersonSlots(day time.Weekday) []string {
	switch day {
	case time.Sunday:
		return []string{}
	case time.Saturday:
		return slices.Clone(middayBlock)
	default:
		// Weekdays and anything unexpected get the full schedule.
		return slices.Concat(middayBlock, eveningBlock)
	}
}

// Offers reports whether label is one of the candidates for t on date.
func Offers(t model.ConsultationType, date time.Time, label string) bool {
	candidates, err := Candidates(t, date)
	if err != nil {
		return false
	}
	return slices.Contains(candidates, label)
}

// IsKnownLabel reports whether label belongs to the catalog vocabulary at all.
func IsKnownLabel(label string) bool {
	_, ok := knownLabels[label]
	return ok
}

type Period int

const (
	Morning Period = iota
	Evening
)

// PeriodOf groups a label for display: AM labels and PM labels before 6
// o'clock are morning, later PM labels are evening. The hour is read as
// written, so "12:15 PM" counts as evening.
func PeriodOf(label string) Period {
	if !strings.Contains(label, "PM") {
		return Morning
	}
	hourPart, _, _ := strings.Cut(strings.TrimSpace(label), ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 6 {
		return Morning
	}
	return Evening
}

// Split partitions candidates into morning and evening groups while keeping
// catalog order inside each group.
func Split(candidates []model.SlotCandidate) (morning, evening []model.SlotCandidate) {
	morning = []model.SlotCandidate{}
	evening = []model.SlotCandidate{}
	for _, c := range candidates {
		if PeriodOf(c.Time) == Evening {
			evening = append(evening, c)
		} else {
			morning = append(morning, c)
		}
	}
	return morning, evening
}
