package models

import "time"

// Actor roles for stats counters.
const (
	RoleClient = "client"
	RoleExpert = "expert"
)

// StatsCounter is the denormalized per-actor aggregate of booking counts.
// It is always re-derivable by counting bookings but maintained
// incrementally for read performance.
type StatsCounter struct {
	ActorID   string    `bson:"actor_id" json:"actor_id"`
	Role      string    `bson:"role" json:"role"`
	Upcoming  int       `bson:"upcoming" json:"upcoming"`
	Completed int       `bson:"completed" json:"completed"`
	Canceled  int       `bson:"canceled" json:"canceled"`
	Total     int       `bson:"total" json:"total"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StatsDelta is the increment set one status transition applies to a counter.
type StatsDelta struct {
	Upcoming  int
	Completed int
	Canceled  int
	Total     int
}

// IsZero reports whether applying the delta would change nothing.
func (d StatsDelta) IsZero() bool {
	return d.Upcoming == 0 && d.Completed == 0 && d.Canceled == 0 && d.Total == 0
}
