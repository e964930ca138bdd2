package bookingRepo

import (
	"context"
	"time"

	"consultbook/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusUpdate carries the field set one lifecycle transition writes.
type StatusUpdate struct {
	Status        string
	PaymentStatus string
	Payment       *models.TransactionMeta
	CompletedAt   *time.Time
}

// BookingRepository is the booking store. Status is only ever written through
// TransitionStatus, which compares on the current status so concurrent
// transitions produce exactly one winner.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// TransitionStatus atomically moves the booking from one of the given
	// statuses into update.Status. It reports false when no document matched,
	// meaning the booking is missing or no longer in an accepted status.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, update StatusUpdate) (bool, error)

	// FindConflicting returns an active (pending or confirmed) booking for
	// the expert whose [start, end) range overlaps the given one on the same
	// date, or nil when the slot is free.
	FindConflicting(ctx context.Context, expertID, date, startTime, endTime string) (*models.Booking, error)

	// Resolver fetches: bookings with status != canceled.
	GetNonCanceledByExpertAndDate(ctx context.Context, expertID, date string) ([]models.Booking, error)
	GetNonCanceledInRange(ctx context.Context, expertID, startDate, endDate string) ([]models.Booking, error)

	// List returns a cursor-paginated page of an actor's bookings, newest
	// first by _id. The limit is clamped to [1, 50].
	List(ctx context.Context, actorID, role string, filter models.BookingListFilter, cursor string, limit int) (*models.BookingPage, error)

	// CountByActor recounts an actor's bookings into stats buckets; used for
	// lazy counter initialization.
	CountByActor(ctx context.Context, actorID, role string) (*models.StatsCounter, error)

	// FindStalePending returns pending bookings created before the cutoff,
	// feeding the payment-expiry sweep.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)

	// WithTransaction runs fn inside a multi-document transaction. The
	// context passed to fn carries the session; repository calls made with
	// it join the transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	EnsureIndexes() error
}
