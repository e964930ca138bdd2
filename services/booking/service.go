package booking

import (
	"context"
	"errors"
	"math"
	"time"

	statsRepo "consultbook/database/repository/stats"
	"consultbook/models"
	"consultbook/services/schedule"
	"consultbook/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Create validates the requested slot, prices it against the expert's hourly
// rate and inserts the booking as pending. The conflict check and the insert
// run in one transaction with the counter updates, so an overlapping active
// booking can never slip in between.
func (svc *DefaultBookingService) Create(ctx context.Context, clientID string, input models.CreateBookingInput) (*models.Booking, error) {
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, utils.NewValidationError("booking date must be YYYY-MM-DD")
	}
	if err := schedule.ValidateSlotRange(input.StartTime, input.EndTime); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	expert, err := svc.ExpertRepo.GetByID(ctx, input.ExpertID)
	if err != nil {
		return nil, err
	}
	if expert == nil {
		return nil, utils.NewNotFoundError("expert not found")
	}

	price := expert.HourlyRate * schedule.DurationHours(input.StartTime, input.EndTime)
	price = math.Round(price*100) / 100

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:            primitive.NewObjectID(),
		ClientID:      clientID,
		ExpertID:      input.ExpertID,
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Price:         price,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
		Attachments:   input.Attachments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = svc.Repo.WithTransaction(ctx, func(sc context.Context) error {
		if err := svc.ensureCounters(sc, booking); err != nil {
			return err
		}
		conflict, err := svc.Repo.FindConflicting(sc, input.ExpertID, input.Date, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}
		if conflict != nil {
			return utils.NewConflictError("this time slot is no longer available")
		}
		if err := svc.Repo.Insert(sc, booking); err != nil {
			return err
		}
		return svc.applyDeltas(sc, booking, "", models.BookingPending)
	})
	if err != nil {
		return nil, err
	}

	svc.invalidateDay(ctx, booking)
	utils.GetLogger().Info("booking created",
		zap.String("bookingID", booking.ID.Hex()),
		zap.String("clientID", clientID),
		zap.String("expertID", input.ExpertID),
		zap.String("date", input.Date))
	return booking, nil
}

// Cancel moves a pending or confirmed booking to canceled. Only the owning
// client may cancel.
func (svc *DefaultBookingService) Cancel(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != actorID {
		return nil, utils.NewNotOwnerError("booking belongs to another client")
	}
	if !booking.IsActive() {
		return nil, utils.NewInvalidStateError("booking can no longer be canceled")
	}

	updated, err := svc.transition(ctx, booking,
		[]string{models.BookingPending, models.BookingConfirmed},
		statusUpdate(models.BookingCanceled, "", nil, nil))
	if errors.Is(err, errStateChanged) {
		return nil, utils.NewInvalidStateError("booking can no longer be canceled")
	}
	return updated, err
}

// Complete marks a confirmed booking as held. Only the owning expert may
// complete, and only from confirmed.
func (svc *DefaultBookingService) Complete(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	booking, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ExpertID != expertID {
		return nil, utils.NewNotOwnerError("booking belongs to another expert")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, utils.NewInvalidStateError("only confirmed bookings can be completed")
	}

	completedAt := time.Now().UTC()
	updated, err := svc.transition(ctx, booking,
		[]string{models.BookingConfirmed},
		statusUpdate(models.BookingCompleted, "", nil, &completedAt))
	if errors.Is(err, errStateChanged) {
		return nil, utils.NewInvalidStateError("only confirmed bookings can be completed")
	}
	return updated, err
}

// Get returns a booking visible to the given actor.
func (svc *DefaultBookingService) Get(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != actorID && booking.ExpertID != actorID {
		return nil, utils.NewNotOwnerError("booking belongs to another actor")
	}
	return booking, nil
}

// List pages through the actor's bookings.
func (svc *DefaultBookingService) List(ctx context.Context, actorID, role string, filter models.BookingListFilter, cursor string, limit int) (*models.BookingPage, error) {
	if role != models.RoleClient && role != models.RoleExpert {
		return nil, utils.NewValidationError("role must be client or expert")
	}
	return svc.Repo.List(ctx, actorID, role, filter, cursor, limit)
}

// Stats returns the actor's counters, initializing them from a full recount
// on first read so steady-state reads never scan bookings.
func (svc *DefaultBookingService) Stats(ctx context.Context, actorID, role string) (*models.StatsCounter, error) {
	if role != models.RoleClient && role != models.RoleExpert {
		return nil, utils.NewValidationError("role must be client or expert")
	}
	counter, err := svc.StatsRepo.Find(ctx, actorID, role)
	if err != nil {
		return nil, err
	}
	if counter != nil {
		return counter, nil
	}

	recount, err := svc.Repo.CountByActor(ctx, actorID, role)
	if err != nil {
		return nil, err
	}
	if err := svc.StatsRepo.Init(ctx, recount); err != nil {
		return nil, err
	}
	// Re-read: a concurrent initializer or delta may have won.
	counter, err = svc.StatsRepo.Find(ctx, actorID, role)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		return recount, nil
	}
	return counter, nil
}

func (svc *DefaultBookingService) fetch(ctx context.Context, bookingID string) (*models.Booking, error) {
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, utils.NewValidationError("malformed booking id")
	}
	booking, err := svc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	return booking, nil
}

// ensureCounters lazily initializes both actors' counter documents before
// any status write, inside the same transaction, so the recount never
// observes the transition being applied.
func (svc *DefaultBookingService) ensureCounters(ctx context.Context, booking *models.Booking) error {
	for _, actor := range []struct{ id, role string }{
		{booking.ClientID, models.RoleClient},
		{booking.ExpertID, models.RoleExpert},
	} {
		counter, err := svc.StatsRepo.Find(ctx, actor.id, actor.role)
		if err != nil {
			return err
		}
		if counter != nil {
			continue
		}
		recount, err := svc.Repo.CountByActor(ctx, actor.id, actor.role)
		if err != nil {
			return err
		}
		if err := svc.StatsRepo.Init(ctx, recount); err != nil {
			return err
		}
	}
	return nil
}

func (svc *DefaultBookingService) applyDeltas(ctx context.Context, booking *models.Booking, oldStatus, newStatus string) error {
	delta := statsRepo.TransitionDelta(oldStatus, newStatus)
	if delta.IsZero() {
		return nil
	}
	if err := svc.StatsRepo.ApplyDelta(ctx, booking.ClientID, models.RoleClient, delta); err != nil {
		return err
	}
	return svc.StatsRepo.ApplyDelta(ctx, booking.ExpertID, models.RoleExpert, delta)
}

func (svc *DefaultBookingService) invalidateDay(ctx context.Context, booking *models.Booking) {
	if svc.Cache != nil {
		svc.Cache.InvalidateDay(ctx, booking.ExpertID, booking.Date)
	}
}
