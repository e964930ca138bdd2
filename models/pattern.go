package models

import "time"

// PatternSlot is one recurring availability window within a SchedulePattern.
type PatternSlot struct {
	Start string `bson:"start" json:"start"` // "HH:MM"
	End   string `bson:"end" json:"end"`     // "HH:MM"
}

// SchedulePattern is a recurring weekly availability template for one expert.
// Slots within a single pattern must not overlap; multiple patterns may apply
// to the same weekday and their slot lists are unioned at resolve time.
type SchedulePattern struct {
	ID         string        `bson:"id" json:"id"`
	ExpertID   string        `bson:"expertId" json:"expertId"`
	DaysOfWeek []int         `bson:"daysOfWeek" json:"daysOfWeek"` // 0 = Sunday .. 6 = Saturday
	TimeSlots  []PatternSlot `bson:"timeSlots" json:"timeSlots"`
	ValidFrom  string        `bson:"validFrom,omitempty" json:"validFrom,omitempty"` // "YYYY-MM-DD", empty = open-ended
	ValidTo    string        `bson:"validTo,omitempty" json:"validTo,omitempty"`
	IsActive   bool          `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// AppliesTo reports whether the pattern contributes slots to the given date
// and weekday. An empty validity bound is open-ended. Date strings compare
// lexicographically in "YYYY-MM-DD" form.
func (p *SchedulePattern) AppliesTo(date string, weekday int) bool {
	if !p.IsActive {
		return false
	}
	if p.ValidFrom != "" && date < p.ValidFrom {
		return false
	}
	if p.ValidTo != "" && date > p.ValidTo {
		return false
	}
	for _, d := range p.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
