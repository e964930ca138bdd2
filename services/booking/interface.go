package booking

import (
	"context"

	bookingRepo "consultbook/database/repository/booking"
	expertRepo "consultbook/database/repository/expert"
	statsRepo "consultbook/database/repository/stats"
	"consultbook/models"
	"consultbook/services/notification"
	"consultbook/services/schedule"
)

// BookingService owns the booking state machine. All status writes flow
// through its named operations; every transition that changes status also
// moves both actors' stats counters in the same transaction.
type BookingService interface {
	Create(ctx context.Context, clientID string, input models.CreateBookingInput) (*models.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	Complete(ctx context.Context, expertID, bookingID string) (*models.Booking, error)

	// Payment-driven transitions. Both are idempotent: the gateway may
	// deliver the same logical event twice (return redirect plus IPN).
	ConfirmPayment(ctx context.Context, bookingID string, meta models.TransactionMeta) (*models.Booking, error)
	FailPayment(ctx context.Context, bookingID, errorCode string) (*models.Booking, error)

	Get(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	List(ctx context.Context, actorID, role string, filter models.BookingListFilter, cursor string, limit int) (*models.BookingPage, error)
	Stats(ctx context.Context, actorID, role string) (*models.StatsCounter, error)
}

// ReminderScheduler enqueues a session reminder once a booking is confirmed.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	StatsRepo    statsRepo.StatsRepository
	ExpertRepo   expertRepo.ExpertRepository
	Cache        *schedule.Cache                  // optional
	Notification notification.NotificationService // optional
	Reminders    ReminderScheduler                // optional
}
