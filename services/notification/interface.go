package notification

import (
	"context"
	"time"

	"frontdesk/models"
)

// NotificationService composes and delivers the email for one request.
type NotificationService interface {
	Notify(ctx context.Context, req models.NotificationRequest) error
}

// Dispatcher hands requests off for asynchronous delivery. Enqueue must
// return quickly; the scheduling engine calls it on the commit path and only
// logs a failure.
type Dispatcher interface {
	Enqueue(ctx context.Context, req models.NotificationRequest) error
	// EnqueueReminder schedules a reminder email ahead of the appointment
	// start; a start too close for the configured lead time is skipped.
	EnqueueReminder(ctx context.Context, bookingID string, start time.Time) error
}
