package models

// PatternInput is the payload for creating or updating a schedule pattern.
type PatternInput struct {
	DaysOfWeek []int         `json:"daysOfWeek" binding:"required"`
	TimeSlots  []PatternSlot `json:"timeSlots" binding:"required"`
	ValidFrom  string        `json:"validFrom"`
	ValidTo    string        `json:"validTo"`
	IsActive   *bool         `json:"isActive"`
}

// OverrideInput is the payload for creating or updating a schedule override.
type OverrideInput struct {
	Date      string         `json:"date"`
	Type      string         `json:"type" binding:"required"`
	TimeSlots []OverrideSlot `json:"timeSlots"`
}
