package statsRepo

import "consultbook/models"

// TransitionDelta computes the counter increments for one booking status
// transition. oldStatus is empty at creation. A pending→confirmed move nets
// to zero so readers never observe a transient dip in the upcoming bucket.
func TransitionDelta(oldStatus, newStatus string) models.StatsDelta {
	var d models.StatsDelta

	if oldStatus == "" {
		d.Total = 1
	}
	if oldStatus == models.BookingPending || oldStatus == models.BookingConfirmed {
		d.Upcoming--
	}
	switch newStatus {
	case models.BookingPending, models.BookingConfirmed:
		d.Upcoming++
	case models.BookingCompleted:
		d.Completed++
	case models.BookingCanceled:
		d.Canceled++
	}
	return d
}
