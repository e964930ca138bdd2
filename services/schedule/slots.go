package schedule

import (
	"fmt"
	"sort"

	"consultbook/models"
)

// ParseClock converts a zero-padded "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// DurationHours returns the length of [start, end) in hours. Both arguments
// must already be validated clock strings with start before end.
func DurationHours(start, end string) float64 {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return float64(e-s) / 60.0
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Zero-padded "HH:MM" strings compare lexicographically in time order.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// Contains reports whether [innerStart, innerEnd) lies within [outerStart, outerEnd).
func Contains(outerStart, outerEnd, innerStart, innerEnd string) bool {
	return innerStart >= outerStart && innerEnd <= outerEnd
}

// SortSlotsByStart orders resolved slots ascending by start time.
func SortSlotsByStart(slots []models.ResolvedSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
}

// ValidateSlotRange checks one start/end pair for clock format and ordering.
func ValidateSlotRange(start, end string) error {
	if _, err := ParseClock(start); err != nil {
		return err
	}
	if _, err := ParseClock(end); err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("slot start %s must be before end %s", start, end)
	}
	return nil
}

// ValidatePatternSlots checks every slot of one pattern submission and
// rejects overlaps between them. Slots within a single pattern must never
// overlap; overlaps across patterns are resolved at union time.
func ValidatePatternSlots(slots []models.PatternSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("pattern needs at least one time slot")
	}
	for _, s := range slots {
		if err := ValidateSlotRange(s.Start, s.End); err != nil {
			return err
		}
	}
	sorted := make([]models.PatternSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if Overlaps(sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End) {
			return fmt.Errorf("slots %s-%s and %s-%s overlap",
				sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
		}
	}
	return nil
}
