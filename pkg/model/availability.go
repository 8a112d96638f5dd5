package model

// AvailabilitySlot is one (date, time_slot, team_number) cell of the availability grid.
type AvailabilitySlot struct {
	Date          string `json:"date" bson:"date"`
	TimeSlot      string `json:"time_slot" bson:"time_slot"`
	TeamNumber    int    `json:"team_number" bson:"team_number"`
	IsAvailable   bool   `json:"is_available" bson:"is_available"`
	BookingID     string `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	BlockedReason string `json:"blocked_reason,omitempty" bson:"blocked_reason,omitempty"`
}

// SlotSummary aggregates the free teams of one time slot on one date.
type SlotSummary struct {
	TimeSlot             string `json:"time_slot"`
	AvailableTeamCount   int    `json:"available_team_count"`
	AvailableTeamNumbers []int  `json:"available_team_numbers"`
}

type TeamAvailability struct {
	TeamNumber  int  `json:"team_number"`
	IsAvailable bool `json:"is_available"`
}

type SlotRef struct {
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	TeamNumber int    `json:"team_number"`
}
