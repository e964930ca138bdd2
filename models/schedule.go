package models

// ScheduleDay resolution types.
const (
	DayTypePattern     = "pattern"
	DayTypeOverride    = "override"
	DayTypeUnavailable = "unavailable"
)

// SlotBooking carries the status of the booking occupying a resolved slot.
type SlotBooking struct {
	Status string `json:"status"`
}

// ResolvedSlot is one bookable window of a resolved day.
type ResolvedSlot struct {
	StartTime    string       `json:"startTime"` // "HH:MM"
	EndTime      string       `json:"endTime"`   // "HH:MM"
	Available    bool         `json:"available"`
	IsCustom     bool         `json:"isCustom,omitempty"`     // slot added by an override, absent from any pattern
	IsOverridden bool         `json:"isOverridden,omitempty"` // pattern slot whose availability an override revoked
	Booking      *SlotBooking `json:"booking,omitempty"`
}

// ScheduleDay is the resolved bookable view of one expert's date: recurring
// patterns merged with the date's override and existing reservations.
type ScheduleDay struct {
	Date      string         `json:"date"`
	Type      string         `json:"type"`
	TimeSlots []ResolvedSlot `json:"timeSlots"`
}
