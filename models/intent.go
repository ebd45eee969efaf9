package models

import "time"

// IntentKind distinguishes what the caller wants done.
type IntentKind string

const (
	IntentBook       IntentKind = "book"
	IntentReschedule IntentKind = "reschedule"
	IntentCancel     IntentKind = "cancel"
)

// CallerIdentity carries what the front-desk conversation has collected about
// the patient. CallerID is the voice session identifier; the rest is filled
// in as the caller volunteers it.
type CallerIdentity struct {
	CallerID    string `bson:"caller_id" json:"caller_id"`
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	DateOfBirth string `bson:"dob,omitempty" json:"dob,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	PayerName   string `bson:"payer_name,omitempty" json:"payer_name,omitempty"`
	PayerID     string `bson:"payer_id,omitempty" json:"payer_id,omitempty"`
	HasReferral bool   `bson:"has_referral,omitempty" json:"has_referral,omitempty"`
	Complaint   string `bson:"complaint,omitempty" json:"complaint,omitempty"`
}

// TimeRange is the caller's (possibly vague) time preference, already reduced
// to concrete bounds by the upstream date-parsing layer.
type TimeRange struct {
	Earliest time.Time     `json:"earliest"`
	Latest   time.Time     `json:"latest"`
	Duration time.Duration `json:"duration"`
}

// SchedulingIntent is one call-scoped request from the conversation layer.
// It is consumed exactly once; ID doubles as the idempotency key so a replay
// (e.g. the voice layer retrying after a dropped response) returns the
// recorded outcome instead of re-running the attempt.
type SchedulingIntent struct {
	ID          string         `json:"id"`
	Kind        IntentKind     `json:"kind"`
	Caller      CallerIdentity `json:"caller"`
	ProviderIDs []string       `json:"provider_ids,omitempty"` // empty means any registered provider
	Window      TimeRange      `json:"window"`
	BookingID   string         `json:"booking_id,omitempty"` // required for reschedule/cancel
}
