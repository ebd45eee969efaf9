package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "frontdesk/database/repository/ledger"
	"frontdesk/models"

	"github.com/google/uuid"
)

// BookingLedger is the only writer of booking status transitions. Commit,
// Cancel and Reschedule are each atomic per provider: every write is a
// compare-and-swap against the version observed at snapshot time, and a lost
// race re-reads and re-checks instead of overwriting.
type BookingLedger struct {
	Repo ledgerRepo.LedgerRepository

	// MaxCASRetries bounds re-reads after losing a version race to a
	// non-overlapping writer. Overlap is never retried here; that is a
	// ConflictError for the engine to resolve against fresh availability.
	MaxCASRetries int
}

func (l *BookingLedger) casRetries() int {
	if l.MaxCASRetries > 0 {
		return l.MaxCASRetries
	}
	return 3
}

// Commit performs the atomic check-and-insert: if the candidate overlaps any
// Confirmed booking for the provider, it fails with a ConflictError; on
// success the booking is inserted already Confirmed.
func (l *BookingLedger) Commit(ctx context.Context, slot models.CandidateSlot, caller models.CallerIdentity) (*models.Booking, error) {
	return l.commit(ctx, slot, caller, "")
}

func (l *BookingLedger) commit(ctx context.Context, slot models.CandidateSlot, caller models.CallerIdentity, supersedes string) (*models.Booking, error) {
	for attempt := 0; attempt < l.casRetries(); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		set, err := l.Repo.Snapshot(ctx, slot.ProviderID)
		if err != nil {
			return nil, err
		}
		if overlapsConfirmed(set, slot.Interval(), supersedes) {
			return nil, NewConflictError(fmt.Sprintf("slot %s at %s is already taken", slot.ProviderID, slot.Start.Format(time.RFC3339)))
		}

		now := time.Now()
		b := models.Booking{
			ID:         uuid.NewString(),
			ProviderID: slot.ProviderID,
			Caller:     caller,
			Start:      slot.Start,
			End:        slot.End(),
			Status:     models.BookingStatusConfirmed,
			Supersedes: supersedes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = l.Repo.InsertBooking(ctx, slot.ProviderID, set.Version, b)
		if errors.Is(err, ledgerRepo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &b, nil
	}
	// Could not win the version race; let the engine re-resolve.
	return nil, NewConflictError(fmt.Sprintf("provider %s booking set is contended", slot.ProviderID))
}

// Cancel transitions a Confirmed booking to Cancelled. Any other current
// status (including a repeated cancel) yields an InvalidStateError and
// leaves the record untouched.
func (l *BookingLedger) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	for attempt := 0; attempt < l.casRetries(); attempt++ {
		b, err := l.Repo.GetBooking(ctx, bookingID)
		if errors.Is(err, ledgerRepo.ErrBookingNotFound) {
			return nil, NewInvalidStateError(fmt.Sprintf("no such active booking %s", bookingID))
		}
		if err != nil {
			return nil, err
		}
		set, err := l.Repo.Snapshot(ctx, b.ProviderID)
		if err != nil {
			return nil, err
		}
		err = l.Repo.TransitionBooking(ctx, b.ProviderID, set.Version, bookingID,
			models.BookingStatusConfirmed, models.BookingStatusCancelled, "")
		switch {
		case errors.Is(err, ledgerRepo.ErrVersionConflict):
			continue
		case errors.Is(err, ledgerRepo.ErrStatusMismatch):
			return nil, NewInvalidStateError(fmt.Sprintf("booking %s is %s, not confirmed", bookingID, b.Status))
		case errors.Is(err, ledgerRepo.ErrBookingNotFound):
			return nil, NewInvalidStateError(fmt.Sprintf("no such active booking %s", bookingID))
		case err != nil:
			return nil, err
		}
		b.Status = models.BookingStatusCancelled
		return b, nil
	}
	return nil, NewConflictError(fmt.Sprintf("booking %s is contended", bookingID))
}

// Reschedule atomically retires the old booking and commits its replacement.
// All-or-nothing: if the new slot cannot be committed, the old booking stays
// Confirmed.
func (l *BookingLedger) Reschedule(ctx context.Context, oldID string, slot models.CandidateSlot) (*models.Booking, error) {
	old, err := l.Repo.GetBooking(ctx, oldID)
	if errors.Is(err, ledgerRepo.ErrBookingNotFound) {
		return nil, NewInvalidStateError(fmt.Sprintf("no such active booking %s", oldID))
	}
	if err != nil {
		return nil, err
	}
	if old.Status != models.BookingStatusConfirmed {
		return nil, NewInvalidStateError(fmt.Sprintf("booking %s is %s, not confirmed", oldID, old.Status))
	}

	if slot.ProviderID == old.ProviderID {
		return l.rescheduleSameProvider(ctx, old, slot)
	}
	return l.rescheduleAcrossProviders(ctx, old, slot)
}

// rescheduleSameProvider swaps old for new in a single CAS on one provider
// set, so no intermediate state is ever visible.
func (l *BookingLedger) rescheduleSameProvider(ctx context.Context, old *models.Booking, slot models.CandidateSlot) (*models.Booking, error) {
	for attempt := 0; attempt < l.casRetries(); attempt++ {
		set, err := l.Repo.Snapshot(ctx, slot.ProviderID)
		if err != nil {
			return nil, err
		}
		// The retiring booking's own interval does not count as a conflict.
		if overlapsConfirmed(set, slot.Interval(), old.ID) {
			return nil, NewConflictError(fmt.Sprintf("slot %s at %s is already taken", slot.ProviderID, slot.Start.Format(time.RFC3339)))
		}

		now := time.Now()
		nb := models.Booking{
			ID:         uuid.NewString(),
			ProviderID: slot.ProviderID,
			Caller:     old.Caller,
			Start:      slot.Start,
			End:        slot.End(),
			Status:     models.BookingStatusConfirmed,
			Supersedes: old.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = l.Repo.SwapBooking(ctx, slot.ProviderID, set.Version, old.ID, nb)
		switch {
		case errors.Is(err, ledgerRepo.ErrVersionConflict):
			continue
		case errors.Is(err, ledgerRepo.ErrStatusMismatch):
			return nil, NewInvalidStateError(fmt.Sprintf("booking %s is no longer confirmed", old.ID))
		case errors.Is(err, ledgerRepo.ErrBookingNotFound):
			return nil, NewInvalidStateError(fmt.Sprintf("no such active booking %s", old.ID))
		case err != nil:
			return nil, err
		}
		return &nb, nil
	}
	return nil, NewConflictError(fmt.Sprintf("provider %s booking set is contended", slot.ProviderID))
}

// rescheduleAcrossProviders commits the replacement on the new provider
// first, then retires the old booking. If the old booking stopped being
// Confirmed in between (a racing cancel), the replacement is removed again
// so the ledger never holds a successor without a retired predecessor.
func (l *BookingLedger) rescheduleAcrossProviders(ctx context.Context, old *models.Booking, slot models.CandidateSlot) (*models.Booking, error) {
	nb, err := l.commit(ctx, slot, old.Caller, old.ID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < l.casRetries(); attempt++ {
		set, err := l.Repo.Snapshot(ctx, old.ProviderID)
		if err != nil {
			l.rollbackCommit(ctx, nb)
			return nil, err
		}
		err = l.Repo.TransitionBooking(ctx, old.ProviderID, set.Version, old.ID,
			models.BookingStatusConfirmed, models.BookingStatusRescheduled, nb.ID)
		switch {
		case errors.Is(err, ledgerRepo.ErrVersionConflict):
			continue
		case errors.Is(err, ledgerRepo.ErrStatusMismatch), errors.Is(err, ledgerRepo.ErrBookingNotFound):
			l.rollbackCommit(ctx, nb)
			return nil, NewInvalidStateError(fmt.Sprintf("booking %s is no longer confirmed", old.ID))
		case err != nil:
			l.rollbackCommit(ctx, nb)
			return nil, err
		}
		return nb, nil
	}
	l.rollbackCommit(ctx, nb)
	return nil, NewConflictError(fmt.Sprintf("provider %s booking set is contended", old.ProviderID))
}

func (l *BookingLedger) rollbackCommit(ctx context.Context, b *models.Booking) {
	for attempt := 0; attempt < l.casRetries(); attempt++ {
		set, err := l.Repo.Snapshot(ctx, b.ProviderID)
		if err != nil {
			return
		}
		err = l.Repo.RemoveBooking(ctx, b.ProviderID, set.Version, b.ID)
		if errors.Is(err, ledgerRepo.ErrVersionConflict) {
			continue
		}
		return
	}
}

func overlapsConfirmed(set ledgerRepo.BookingSet, iv models.Interval, exceptID string) bool {
	for _, b := range set.Confirmed() {
		if b.ID == exceptID {
			continue
		}
		if b.Interval().Overlaps(iv) {
			return true
		}
	}
	return false
}
