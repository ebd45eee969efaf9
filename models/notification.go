package models

// NotificationKind selects the email variant sent for a booking.
type NotificationKind string

const (
	NotificationConfirmed   NotificationKind = "confirmed"
	NotificationCancelled   NotificationKind = "cancelled"
	NotificationRescheduled NotificationKind = "rescheduled"
	NotificationReminder    NotificationKind = "reminder"
)

// NotificationRequest asks the notifier to deliver one email about a booking.
// Delivery is best-effort: a failed send never affects the booking itself.
type NotificationRequest struct {
	BookingID string           `json:"booking_id"`
	Kind      NotificationKind `json:"kind"`
	Email     string           `json:"email"`
}
