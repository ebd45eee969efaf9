package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

// Booking is the authoritative record of a scheduled appointment. A
// reschedule never mutates the old booking's interval: it creates a new
// booking whose Supersedes points at the old one, and the old booking is
// marked rescheduled with SupersededBy set.
type Booking struct {
	ID           string         `bson:"id" json:"id"`
	ProviderID   string         `bson:"provider_id" json:"provider_id"`
	Caller       CallerIdentity `bson:"caller" json:"caller"`
	Start        time.Time      `bson:"start" json:"start"`
	End          time.Time      `bson:"end" json:"end"`
	Status       BookingStatus  `bson:"status" json:"status"`
	Supersedes   string         `bson:"supersedes,omitempty" json:"supersedes,omitempty"`
	SupersededBy string         `bson:"superseded_by,omitempty" json:"superseded_by,omitempty"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}
