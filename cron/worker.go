package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"consultbook/config"
	bookingRepo "consultbook/database/repository/booking"
	"consultbook/models"
	"consultbook/services/booking"
	"consultbook/services/notification"
	"consultbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeReminderSend = "booking:reminder"
	TypeExpireStale  = "booking:expire_stale"
)

// ReminderPayload is the enqueued reminder task body.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}

// InitBookingWorker runs the async worker and the periodic scheduler in
// background. The scheduler enqueues a stale-payment sweep every minute;
// reminder tasks are enqueued per booking at confirmation time.
func InitBookingWorker(bookingSvc booking.BookingService, repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, notifSvc))
	mux.HandleFunc(TypeExpireStale, handleExpireTask(bookingSvc, repo))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register("@every 1m", asynq.NewTask(TypeExpireStale, nil)); err != nil {
		log.Printf("[BookingWorker] ❌ Failed to register expiry sweep: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[BookingScheduler] 🚀 Starting periodic scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Printf("[BookingScheduler] ❌ Scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[BookingWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BookingWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleExpireTask cancels pending bookings whose payment window elapsed.
// Each booking cancels independently; one failure does not block the sweep.
func handleExpireTask(bookingSvc booking.BookingService, repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ttl := time.Duration(config.AppConfig.PendingPaymentTTLMinutes) * time.Minute
		cutoff := time.Now().UTC().Add(-ttl)

		stale, err := repo.FindStalePending(ctx, cutoff, 100)
		if err != nil {
			log.Printf("[ExpireSweep] ❌ Failed to list stale bookings: %v", err)
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		log.Printf("[ExpireSweep] ⏰ Expiring %d stale pending bookings", len(stale))
		for _, b := range stale {
			if _, err := bookingSvc.FailPayment(ctx, b.ID.Hex(), "payment_timeout"); err != nil {
				// Lost race: the payment landed or the client canceled first.
				var appErr *utils.AppError
				if errors.As(err, &appErr) && !utils.IsTransient(err) {
					continue
				}
				log.Printf("[ExpireSweep] ❌ Failed to expire booking %s: %v", b.ID.Hex(), err)
			}
		}
		return nil
	}
}

// handleReminderTask re-reads the booking at fire time and pushes to both
// sides only if it is still confirmed.
func handleReminderTask(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		id, err := primitive.ObjectIDFromHex(p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] 🔴 Invalid booking id %q: %v", p.BookingID, err)
			return nil
		}
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil || b.Status != models.BookingConfirmed {
			return nil
		}

		log.Printf("[ReminderHandler] ⏰ Sending reminder for booking %s (%s %s)", p.BookingID, b.Date, b.StartTime)

		title := "Upcoming consultation"
		body := "Your consultation on " + b.Date + " starts at " + b.StartTime + "."
		data := map[string]string{
			"type":      "booking_reminder",
			"bookingId": p.BookingID,
			"date":      b.Date,
			"startTime": b.StartTime,
		}

		if err := notifSvc.SendClientPush(ctx, b.ClientID, title, body, data); err != nil {
			log.Printf("[ReminderHandler] ❌ Failed client push: %v", err)
		}
		if err := notifSvc.SendExpertPush(ctx, b.ExpertID, title, body, data); err != nil {
			log.Printf("[ReminderHandler] ❌ Failed expert push: %v", err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[BookingWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
