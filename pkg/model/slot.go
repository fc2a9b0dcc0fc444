package model

// SlotCandidate is computed on every availability query and never stored.
type SlotCandidate struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type DaySlots struct {
	Date             string           `json:"date"`
	ConsultationType ConsultationType `json:"consultation_type"`
	Slots            []SlotCandidate  `json:"slots"`
	Morning          []SlotCandidate  `json:"morning"`
	Evening          []SlotCandidate  `json:"evening"`
	Total            int              `json:"total"`
	AvailableCount   int              `json:"available_count"`
}

type DayAvailability struct {
	Date           string `json:"date"`
	Label          string `json:"label"`
	AvailableCount int    `json:"available_count"`
}
