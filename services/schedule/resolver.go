package schedule

import (
	"context"
	"time"

	availabilityRepo "consultbook/database/repository/availability"
	bookingRepo "consultbook/database/repository/booking"
	"consultbook/models"
	"consultbook/utils"

	"go.uber.org/zap"
)

// Resolver reconciles recurring patterns, per-date overrides and existing
// reservations into the bookable-slot view of a date or date range.
type Resolver struct {
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Cache        *Cache // optional
}

// ResolveDay produces the bookable view of one expert's date.
func (r *Resolver) ResolveDay(ctx context.Context, expertID, date string) (*models.ScheduleDay, error) {
	weekday, err := weekdayOf(date)
	if err != nil {
		return nil, utils.NewValidationError("invalid date: want YYYY-MM-DD")
	}

	if r.Cache != nil {
		if day, ok := r.Cache.GetDay(ctx, expertID, date); ok {
			return day, nil
		}
	}

	patterns, err := r.Availability.GetActivePatternsForWeekday(ctx, expertID, weekday)
	if err != nil {
		return nil, err
	}
	override, err := r.Availability.GetOverride(ctx, expertID, date)
	if err != nil {
		return nil, err
	}
	bookings, err := r.Bookings.GetNonCanceledByExpertAndDate(ctx, expertID, date)
	if err != nil {
		return nil, err
	}

	day := buildDay(date, weekday, patterns, override, bookings)
	if r.Cache != nil {
		r.Cache.SetDay(ctx, expertID, date, &day)
	}
	return &day, nil
}

// ResolveRange resolves every date in [startDate, endDate] with one query
// per store instead of one per day.
func (r *Resolver) ResolveRange(ctx context.Context, expertID, startDate, endDate string) ([]models.ScheduleDay, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, utils.NewValidationError("invalid start date: want YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, utils.NewValidationError("invalid end date: want YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, utils.NewValidationError("end date precedes start date")
	}
	if end.Sub(start) > 62*24*time.Hour {
		return nil, utils.NewValidationError("date range too wide")
	}

	patterns, err := r.Availability.GetActivePatterns(ctx, expertID)
	if err != nil {
		return nil, err
	}
	overrides, err := r.Availability.GetOverridesInRange(ctx, expertID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	bookings, err := r.Bookings.GetNonCanceledInRange(ctx, expertID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	overrideByDate := make(map[string]*models.ScheduleOverride, len(overrides))
	for i := range overrides {
		overrideByDate[overrides[i].Date] = &overrides[i]
	}
	bookingsByDate := make(map[string][]models.Booking, len(bookings))
	for _, b := range bookings {
		bookingsByDate[b.Date] = append(bookingsByDate[b.Date], b)
	}

	var days []models.ScheduleDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		weekday := int(d.Weekday())
		days = append(days, buildDay(date, weekday, patterns, overrideByDate[date], bookingsByDate[date]))
	}

	utils.GetLogger().Debug("resolved schedule range",
		zap.String("expertID", expertID),
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Int("days", len(days)))
	return days, nil
}

// buildDay runs the per-day merge: pattern union, override application,
// then booking occupancy.
func buildDay(date string, weekday int, patterns []models.SchedulePattern, override *models.ScheduleOverride, bookings []models.Booking) models.ScheduleDay {
	if override != nil && override.Type == models.OverrideTypeUnavailable {
		return models.ScheduleDay{Date: date, Type: models.DayTypeUnavailable, TimeSlots: []models.ResolvedSlot{}}
	}

	slots := unionPatternSlots(date, weekday, patterns)

	dayType := models.DayTypePattern
	if override != nil {
		dayType = models.DayTypeOverride
		slots = applyOverride(slots, override)
	}

	markBooked(slots, bookings)

	return models.ScheduleDay{Date: date, Type: dayType, TimeSlots: slots}
}

// unionPatternSlots unions the slot lists of every pattern applying to the
// date. Identical (start, end) pairs contributed by different patterns are
// deduplicated; overlapping-but-distinct slots pass through unmodified.
func unionPatternSlots(date string, weekday int, patterns []models.SchedulePattern) []models.ResolvedSlot {
	slots := []models.ResolvedSlot{}
	seen := make(map[string]bool)
	for i := range patterns {
		p := &patterns[i]
		if !p.AppliesTo(date, weekday) {
			continue
		}
		for _, s := range p.TimeSlots {
			key := s.Start + "-" + s.End
			if seen[key] {
				continue
			}
			seen[key] = true
			slots = append(slots, models.ResolvedSlot{
				StartTime: s.Start,
				EndTime:   s.End,
				Available: true,
			})
		}
	}
	SortSlotsByStart(slots)
	return slots
}

// applyOverride merges override slots keyed by (start, end): entries for an
// existing key replace its availability, entries for a new key are appended
// as custom slots.
func applyOverride(slots []models.ResolvedSlot, override *models.ScheduleOverride) []models.ResolvedSlot {
	index := make(map[string]int, len(slots))
	for i, s := range slots {
		index[s.StartTime+"-"+s.EndTime] = i
	}
	for _, ov := range override.TimeSlots {
		key := ov.Start + "-" + ov.End
		if i, ok := index[key]; ok {
			slots[i].Available = ov.Available
			if !ov.Available {
				slots[i].IsOverridden = true
			}
			continue
		}
		slots = append(slots, models.ResolvedSlot{
			StartTime: ov.Start,
			EndTime:   ov.End,
			Available: ov.Available,
			IsCustom:  true,
		})
	}
	SortSlotsByStart(slots)
	return slots
}

// markBooked flags every slot contained in a non-canceled booking's range.
// The first matching booking wins; active bookings never overlap.
func markBooked(slots []models.ResolvedSlot, bookings []models.Booking) {
	for i := range slots {
		for j := range bookings {
			b := &bookings[j]
			if Contains(b.StartTime, b.EndTime, slots[i].StartTime, slots[i].EndTime) {
				slots[i].Available = false
				slots[i].Booking = &models.SlotBooking{Status: b.Status}
				break
			}
		}
	}
}

func weekdayOf(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}
