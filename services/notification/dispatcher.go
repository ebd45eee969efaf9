package notification

import (
	"context"
	"time"

	"frontdesk/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher queues notification work onto Redis. Retry bookkeeping
// lives here, in the queue, not in the scheduling engine: a failed delivery
// is retried by the worker with backoff and never touches the ledger.
type AsynqDispatcher struct {
	Client       *asynq.Client
	Logger       *zap.Logger
	ReminderLead time.Duration
}

func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger, reminderLead time.Duration) *AsynqDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqDispatcher{Client: client, Logger: logger, ReminderLead: reminderLead}
}

func (d *AsynqDispatcher) Enqueue(ctx context.Context, req models.NotificationRequest) error {
	task, err := NewDeliveryTask(req)
	if err != nil {
		return err
	}
	info, err := d.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if err != nil {
		return err
	}
	d.Logger.Debug("notification queued",
		zap.String("task_id", info.ID),
		zap.String("booking_id", req.BookingID),
		zap.String("kind", string(req.Kind)))
	return nil
}

func (d *AsynqDispatcher) EnqueueReminder(ctx context.Context, bookingID string, start time.Time) error {
	fireAt := start.Add(-d.ReminderLead)
	if !fireAt.After(time.Now()) {
		// Appointment is within the lead window already; the confirmation
		// email just sent covers it.
		return nil
	}
	task, opts, err := NewReminderTask(bookingID, fireAt)
	if err != nil {
		return err
	}
	_, err = d.Client.EnqueueContext(ctx, task, opts...)
	return err
}

// DirectDispatcher delivers inline on a goroutine, used by the memory store
// driver and tests where no Redis queue exists. Same contract: fire and
// forget, failures logged only.
type DirectDispatcher struct {
	Svc    NotificationService
	Logger *zap.Logger
}

func NewDirectDispatcher(svc NotificationService, logger *zap.Logger) *DirectDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectDispatcher{Svc: svc, Logger: logger}
}

func (d *DirectDispatcher) Enqueue(_ context.Context, req models.NotificationRequest) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.Svc.Notify(ctx, req); err != nil {
			d.Logger.Warn("notification delivery failed",
				zap.String("booking_id", req.BookingID), zap.Error(err))
		}
	}()
	return nil
}

func (d *DirectDispatcher) EnqueueReminder(context.Context, string, time.Time) error {
	// Reminders need a durable queue; the direct dispatcher drops them.
	return nil
}
