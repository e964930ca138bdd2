package schedule

import (
	"testing"

	"consultbook/models"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9:30", 0, true},
		{"09-30", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDurationHours(t *testing.T) {
	if got := DurationHours("09:00", "10:30"); got != 1.5 {
		t.Errorf("DurationHours(09:00, 10:30) = %v, want 1.5", got)
	}
	if got := DurationHours("00:00", "23:59"); got < 23.98 || got > 23.99 {
		t.Errorf("DurationHours(00:00, 23:59) = %v", got)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"disjoint", "09:00", "10:00", "10:00", "11:00", false},
		{"touching boundaries do not overlap", "09:00", "10:00", "10:00", "12:00", false},
		{"partial", "09:00", "10:30", "10:00", "11:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps reversed (%s-%s, %s-%s) = %v, want %v",
					tc.bStart, tc.bEnd, tc.aStart, tc.aEnd, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !Contains("09:00", "12:00", "09:00", "12:00") {
		t.Error("range should contain itself")
	}
	if !Contains("09:00", "12:00", "10:00", "11:00") {
		t.Error("inner range should be contained")
	}
	if Contains("09:00", "12:00", "08:00", "10:00") {
		t.Error("range extending before the outer start is not contained")
	}
	if Contains("09:00", "12:00", "11:00", "13:00") {
		t.Error("range extending past the outer end is not contained")
	}
}

func TestValidateSlotRange(t *testing.T) {
	if err := ValidateSlotRange("09:00", "10:00"); err != nil {
		t.Errorf("valid slot rejected: %v", err)
	}
	if err := ValidateSlotRange("10:00", "10:00"); err == nil {
		t.Error("zero-length slot accepted")
	}
	if err := ValidateSlotRange("11:00", "10:00"); err == nil {
		t.Error("inverted slot accepted")
	}
	if err := ValidateSlotRange("9am", "10:00"); err == nil {
		t.Error("malformed start accepted")
	}
}

func TestValidatePatternSlots(t *testing.T) {
	valid := []models.PatternSlot{
		{Start: "13:00", End: "14:00"},
		{Start: "09:00", End: "10:00"},
	}
	if err := ValidatePatternSlots(valid); err != nil {
		t.Errorf("disjoint slots rejected: %v", err)
	}

	overlapping := []models.PatternSlot{
		{Start: "09:00", End: "10:30"},
		{Start: "10:00", End: "11:00"},
	}
	if err := ValidatePatternSlots(overlapping); err == nil {
		t.Error("overlapping slots accepted")
	}

	if err := ValidatePatternSlots(nil); err == nil {
		t.Error("empty slot list accepted")
	}
}
