package models

import "time"

// ScheduleOverride types.
const (
	OverrideTypeSlots       = "override"
	OverrideTypeUnavailable = "unavailable"
)

// OverrideSlot replaces or augments a single pattern slot on one date.
type OverrideSlot struct {
	Start     string `bson:"start" json:"start"` // "HH:MM"
	End       string `bson:"end" json:"end"`     // "HH:MM"
	Available bool   `bson:"available" json:"available"`
}

// ScheduleOverride is a single-date exception to an expert's recurring
// patterns. At most one override exists per (expert, date). Type
// "unavailable" blanks the whole day; type "override" replaces or adds
// individual slots.
type ScheduleOverride struct {
	ID        string         `bson:"id" json:"id"`
	ExpertID  string         `bson:"expertId" json:"expertId"`
	Date      string         `bson:"date" json:"date"` // "YYYY-MM-DD"
	Type      string         `bson:"type" json:"type"`
	TimeSlots []OverrideSlot `bson:"timeSlots,omitempty" json:"timeSlots,omitempty"` // only for type "override"
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}
