package notification

import (
	"context"
	"fmt"

	expertRepo "consultbook/database/repository/expert"
	"consultbook/models"
	"consultbook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error
	SendExpertPush(ctx context.Context, expertID, title, body string, data map[string]string) error
	NotifyBookingTransition(ctx context.Context, booking *models.Booking)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo expertRepo.ExpertRepository
}

// SendClientPush looks up a client's FCM tokens and sends a push.
func (s *DefaultNotificationService) SendClientPush(ctx context.Context, clientID, title, body string, data map[string]string) error {
	client, err := s.Repo.GetClientByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("SendClientPush: could not find client %s: %w", clientID, err)
	}
	if client == nil || len(client.FCMTokens) == 0 {
		return nil // no push target
	}
	return sendToTokens(ctx, client.FCMTokens, title, body, data)
}

// SendExpertPush looks up an expert's FCM tokens and sends a push.
func (s *DefaultNotificationService) SendExpertPush(ctx context.Context, expertID, title, body string, data map[string]string) error {
	expert, err := s.Repo.GetByID(ctx, expertID)
	if err != nil {
		return fmt.Errorf("SendExpertPush: could not find expert %s: %w", expertID, err)
	}
	if expert == nil || len(expert.FCMTokens) == 0 {
		return nil // no push target
	}
	return sendToTokens(ctx, expert.FCMTokens, title, body, data)
}

// NotifyBookingTransition pushes a status update to both sides of a booking.
// Delivery is best effort; failures are logged and never fail the transition.
func (s *DefaultNotificationService) NotifyBookingTransition(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()
	title, body := transitionCopy(booking)
	if title == "" {
		return
	}
	data := map[string]string{
		"type":      "booking_update",
		"bookingId": booking.ID.Hex(),
		"status":    booking.Status,
	}
	if err := s.SendClientPush(ctx, booking.ClientID, title, body, data); err != nil {
		logger.Warn("client push failed", zap.String("bookingID", booking.ID.Hex()), zap.Error(err))
	}
	if err := s.SendExpertPush(ctx, booking.ExpertID, title, body, data); err != nil {
		logger.Warn("expert push failed", zap.String("bookingID", booking.ID.Hex()), zap.Error(err))
	}
}

func transitionCopy(booking *models.Booking) (title, body string) {
	when := fmt.Sprintf("%s %s–%s", booking.Date, booking.StartTime, booking.EndTime)
	switch booking.Status {
	case models.BookingConfirmed:
		return "Booking confirmed", fmt.Sprintf("Your consultation on %s is confirmed.", when)
	case models.BookingCanceled:
		return "Booking canceled", fmt.Sprintf("The consultation on %s was canceled.", when)
	case models.BookingCompleted:
		return "Consultation completed", fmt.Sprintf("The consultation on %s is marked completed.", when)
	}
	return "", ""
}

func sendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return nil
	}
	var firstErr error
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := utils.FCMClient.Send(ctx, msg); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to send FCM message: %w", err)
		}
	}
	return firstErr
}
