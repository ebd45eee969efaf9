package ledgerRepo

import (
	"context"
	"errors"

	"frontdesk/models"
)

var (
	// ErrVersionConflict means another writer advanced the provider's
	// booking set between snapshot and write; the caller should re-read.
	ErrVersionConflict = errors.New("booking set version conflict")
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusMismatch means the booking exists but is not in the status
	// the transition was guarded on.
	ErrStatusMismatch = errors.New("booking status mismatch")
)

// BookingSet is the versioned per-provider booking state. Every write to a
// provider's bookings goes through a compare-and-swap on Version, so writers
// on the same provider serialize while different providers stay independent.
type BookingSet struct {
	ProviderID string           `bson:"provider_id" json:"provider_id"`
	Version    int64            `bson:"version" json:"version"`
	Bookings   []models.Booking `bson:"bookings" json:"bookings"`
}

// Confirmed returns the subset of bookings currently in Confirmed status.
func (s BookingSet) Confirmed() []models.Booking {
	var out []models.Booking
	for _, b := range s.Bookings {
		if b.Status == models.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out
}

// LedgerRepository is the storage contract for the booking ledger. All write
// methods take the version observed at snapshot time and fail with
// ErrVersionConflict if the set has moved on since.
type LedgerRepository interface {
	// Snapshot returns the provider's current booking set. A provider with
	// no bookings yet yields an empty set at version 0.
	Snapshot(ctx context.Context, providerID string) (BookingSet, error)

	InsertBooking(ctx context.Context, providerID string, version int64, b models.Booking) error
	RemoveBooking(ctx context.Context, providerID string, version int64, bookingID string) error

	// TransitionBooking moves a booking from one status to another,
	// optionally recording its successor. ErrStatusMismatch when the
	// booking is not currently in `from`.
	TransitionBooking(ctx context.Context, providerID string, version int64, bookingID string, from, to models.BookingStatus, supersededBy string) error

	// SwapBooking atomically marks the old booking rescheduled and inserts
	// its replacement within the same provider set.
	SwapBooking(ctx context.Context, providerID string, version int64, oldID string, nb models.Booking) error

	// GetBooking looks a booking up across providers.
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)

	// ConfirmedInRange returns Confirmed bookings overlapping the window.
	ConfirmedInRange(ctx context.Context, providerID string, window models.Interval) ([]models.Booking, error)

	// ActiveForCaller returns the caller's Pending and Confirmed bookings,
	// used for provider-continuity ranking.
	ActiveForCaller(ctx context.Context, callerID string) ([]models.Booking, error)
}
