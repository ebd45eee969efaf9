package notification

import (
	"encoding/json"
	"time"

	"frontdesk/models"

	"github.com/hibiken/asynq"
)

const (
	TypeNotificationDeliver = "notification:deliver"
	TypeReminderSend        = "reminder:send"
)

// ReminderPayload is the reminder task body.
type ReminderPayload struct {
	BookingID string `json:"booking_id"`
}

func NewDeliveryTask(req models.NotificationRequest) (*asynq.Task, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationDeliver, b), nil
}

func NewReminderTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReminderPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}
