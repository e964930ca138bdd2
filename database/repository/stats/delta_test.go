package statsRepo

import (
	"testing"

	"consultbook/models"
)

func TestTransitionDelta(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     models.StatsDelta
	}{
		{"creation", "", models.BookingPending, models.StatsDelta{Total: 1, Upcoming: 1}},
		{"payment confirmed", models.BookingPending, models.BookingConfirmed, models.StatsDelta{}},
		{"pending canceled", models.BookingPending, models.BookingCanceled, models.StatsDelta{Upcoming: -1, Canceled: 1}},
		{"confirmed canceled", models.BookingConfirmed, models.BookingCanceled, models.StatsDelta{Upcoming: -1, Canceled: 1}},
		{"completed", models.BookingConfirmed, models.BookingCompleted, models.StatsDelta{Upcoming: -1, Completed: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TransitionDelta(tc.from, tc.to); got != tc.want {
				t.Errorf("TransitionDelta(%q, %q) = %+v, want %+v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

// Walking any legal path through the state machine must keep the total equal
// to the sum of the buckets.
func TestDeltaConservation(t *testing.T) {
	paths := [][]string{
		{"", models.BookingPending, models.BookingCanceled},
		{"", models.BookingPending, models.BookingConfirmed, models.BookingCanceled},
		{"", models.BookingPending, models.BookingConfirmed, models.BookingCompleted},
	}
	for _, path := range paths {
		var c models.StatsCounter
		for i := 1; i < len(path); i++ {
			d := TransitionDelta(path[i-1], path[i])
			c.Upcoming += d.Upcoming
			c.Completed += d.Completed
			c.Canceled += d.Canceled
			c.Total += d.Total
		}
		if c.Total != c.Upcoming+c.Completed+c.Canceled {
			t.Errorf("path %v: total %d != %d+%d+%d", path, c.Total, c.Upcoming, c.Completed, c.Canceled)
		}
		if c.Total != 1 {
			t.Errorf("path %v: total = %d, want 1", path, c.Total)
		}
	}
}

func TestPendingConfirmedDeltaIsZero(t *testing.T) {
	if !TransitionDelta(models.BookingPending, models.BookingConfirmed).IsZero() {
		t.Error("pending to confirmed should net to zero so no counter write happens")
	}
}
