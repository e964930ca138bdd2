package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"consultbook/config"
	"consultbook/models"

	"github.com/hibiken/asynq"
)

// AsynqReminderScheduler enqueues one reminder task per confirmed booking,
// timed ReminderLeadMinutes before the session start.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func NewReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqReminderScheduler{Client: client}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	start, err := time.Parse("2006-01-02 15:04", booking.Date+" "+booking.StartTime)
	if err != nil {
		return fmt.Errorf("could not parse session start: %w", err)
	}

	lead := time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute
	fireAt := start.Add(-lead)
	if !fireAt.After(time.Now().UTC()) {
		// Confirmed too close to the start; nothing to remind about.
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{BookingID: booking.ID.Hex()})
	if err != nil {
		return fmt.Errorf("could not marshal reminder payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := s.Client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("could not enqueue reminder: %w", err)
	}
	return nil
}
