package model

type ConsultationType string

const (
	Video    ConsultationType = "video"
	InPerson ConsultationType = "in-person"
)

func (t ConsultationType) Valid() bool {
	return t == Video || t == InPerson
}

func (t ConsultationType) String() string {
	return string(t)
}

// Slot identifies one bookable appointment opportunity. Video and in-person
// slots with the same date and time are distinct.
type Slot struct {
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	ConsultationType ConsultationType `json:"consultation_type"`
}

func (s Slot) Key() string {
	return string(s.ConsultationType) + "|" + s.Date + "|" + s.Time
}
