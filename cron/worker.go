package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"frontdesk/config"
	"frontdesk/models"
	"frontdesk/services/notification"

	"github.com/hibiken/asynq"
)

// InitNotificationWorker runs the async delivery worker in background. It
// consumes confirmation/cancellation emails queued by the scheduling engine
// and the deferred appointment reminders.
func InitNotificationWorker(notifSvc notification.NotificationService) {
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
	mux.HandleFunc(notification.TypeNotificationDeliver, handleDeliveryTask(notifSvc))
	mux.HandleFunc(notification.TypeReminderSend, handleReminderTask(notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDeliveryTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var req models.NotificationRequest
		if err := json.Unmarshal(t.Payload(), &req); err != nil {
			return err
		}
		return notifSvc.Notify(ctx, req)
	}
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload notification.ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
		return notifSvc.Notify(ctx, models.NotificationRequest{
			BookingID: payload.BookingID,
			Kind:      models.NotificationReminder,
		})
	}
}
