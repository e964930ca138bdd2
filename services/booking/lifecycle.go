package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "consultbook/database/repository/booking"
	"consultbook/models"
	"consultbook/utils"

	"go.uber.org/zap"
)

// errStateChanged signals that the CAS write matched nothing: the booking
// left the expected status between the read and the write.
var errStateChanged = errors.New("booking status changed concurrently")

// ConfirmPayment moves a pending booking to confirmed and records the
// transaction. Idempotent: a duplicate delivery for a booking already
// confirmed (or since completed) is a success and touches no counter.
func (svc *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID string, meta models.TransactionMeta) (*models.Booking, error) {
	booking, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingConfirmed, models.BookingCompleted:
		utils.GetLogger().Info("duplicate payment confirmation ignored",
			zap.String("bookingID", bookingID))
		return booking, nil
	case models.BookingCanceled:
		return nil, utils.NewInvalidStateError("booking was canceled before payment completed")
	}

	updated, err := svc.transition(ctx, booking,
		[]string{models.BookingPending},
		statusUpdate(models.BookingConfirmed, models.PaymentCompleted, &meta, nil))
	if errors.Is(err, errStateChanged) {
		return svc.resolvePaymentRace(ctx, bookingID, models.BookingConfirmed)
	}
	if err != nil {
		return nil, err
	}

	if svc.Reminders != nil {
		if rerr := svc.Reminders.ScheduleReminder(ctx, updated); rerr != nil {
			utils.GetLogger().Warn("failed to schedule reminder",
				zap.String("bookingID", bookingID), zap.Error(rerr))
		}
	}
	return updated, nil
}

// FailPayment cancels a pending booking whose payment failed or expired.
// Idempotent: a duplicate delivery for a booking already canceled is a
// success and touches no counter.
func (svc *DefaultBookingService) FailPayment(ctx context.Context, bookingID, errorCode string) (*models.Booking, error) {
	booking, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingCanceled:
		utils.GetLogger().Info("duplicate payment failure ignored",
			zap.String("bookingID", bookingID))
		return booking, nil
	case models.BookingConfirmed, models.BookingCompleted:
		return nil, utils.NewInvalidStateError("payment already completed for this booking")
	}

	meta := &models.TransactionMeta{ErrorCode: errorCode, ReceivedAt: time.Now().UTC()}
	updated, err := svc.transition(ctx, booking,
		[]string{models.BookingPending},
		statusUpdate(models.BookingCanceled, models.PaymentFailed, meta, nil))
	if errors.Is(err, errStateChanged) {
		return svc.resolvePaymentRace(ctx, bookingID, models.BookingCanceled)
	}
	return updated, err
}

// transition runs the CAS status write and both counter deltas as one unit.
// Counters are ensured first, still inside the transaction, so a lazy
// recount can never see the new status. Returns errStateChanged when the
// booking was no longer in an accepted status.
func (svc *DefaultBookingService) transition(ctx context.Context, booking *models.Booking, from []string, update bookingRepo.StatusUpdate) (*models.Booking, error) {
	oldStatus := booking.Status
	err := svc.Repo.WithTransaction(ctx, func(sc context.Context) error {
		if err := svc.ensureCounters(sc, booking); err != nil {
			return err
		}
		matched, err := svc.Repo.TransitionStatus(sc, booking.ID, from, update)
		if err != nil {
			return err
		}
		if !matched {
			return errStateChanged
		}
		return svc.applyDeltas(sc, booking, oldStatus, update.Status)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = update.Status
	if update.PaymentStatus != "" {
		booking.PaymentStatus = update.PaymentStatus
	}
	if update.Payment != nil {
		booking.Payment = update.Payment
	}
	if update.CompletedAt != nil {
		booking.CompletedAt = update.CompletedAt
	}
	booking.UpdatedAt = time.Now().UTC()

	svc.invalidateDay(ctx, booking)
	if svc.Notification != nil {
		svc.Notification.NotifyBookingTransition(ctx, booking)
	}
	utils.GetLogger().Info("booking transitioned",
		zap.String("bookingID", booking.ID.Hex()),
		zap.String("from", oldStatus),
		zap.String("to", update.Status))
	return booking, nil
}

// resolvePaymentRace re-reads a booking after a lost CAS. The loser of a
// duplicate gateway delivery finds the booking already in the target status
// and treats that as success.
func (svc *DefaultBookingService) resolvePaymentRace(ctx context.Context, bookingID, target string) (*models.Booking, error) {
	current, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}
	// A confirmation racing a completion is still a success.
	if target == models.BookingConfirmed && current.Status == models.BookingCompleted {
		return current, nil
	}
	return nil, utils.NewInvalidStateError("booking is in state " + current.Status)
}

func statusUpdate(status, paymentStatus string, payment *models.TransactionMeta, completedAt *time.Time) bookingRepo.StatusUpdate {
	return bookingRepo.StatusUpdate{
		Status:        status,
		PaymentStatus: paymentStatus,
		Payment:       payment,
		CompletedAt:   completedAt,
	}
}
