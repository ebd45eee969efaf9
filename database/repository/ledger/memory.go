package ledgerRepo

import (
	"context"
	"sync"
	"time"

	"frontdesk/models"
)

// MemoryLedgerRepo is an in-process LedgerRepository with the same
// compare-and-swap semantics as the Mongo implementation. Each provider's
// set carries its own mutex, so commits on different providers never block
// each other.
type MemoryLedgerRepo struct {
	mu   sync.RWMutex
	sets map[string]*memorySet
	byID map[string]string // booking id -> provider id
}

type memorySet struct {
	mu       sync.Mutex
	version  int64
	bookings []models.Booking
}

func NewMemoryLedgerRepo() *MemoryLedgerRepo {
	return &MemoryLedgerRepo{
		sets: make(map[string]*memorySet),
		byID: make(map[string]string),
	}
}

func (r *MemoryLedgerRepo) set(providerID string) *memorySet {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[providerID]
	if !ok {
		s = &memorySet{}
		r.sets[providerID] = s
	}
	return s
}

func (r *MemoryLedgerRepo) Snapshot(_ context.Context, providerID string) (BookingSet, error) {
	s := r.set(providerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := BookingSet{ProviderID: providerID, Version: s.version}
	out.Bookings = append(out.Bookings, s.bookings...)
	return out, nil
}

func (r *MemoryLedgerRepo) InsertBooking(_ context.Context, providerID string, version int64, b models.Booking) error {
	s := r.set(providerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return ErrVersionConflict
	}
	s.bookings = append(s.bookings, b)
	s.version++

	r.mu.Lock()
	r.byID[b.ID] = providerID
	r.mu.Unlock()
	return nil
}

func (r *MemoryLedgerRepo) RemoveBooking(_ context.Context, providerID string, version int64, bookingID string) error {
	s := r.set(providerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return ErrVersionConflict
	}
	for i, b := range s.bookings {
		if b.ID == bookingID {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			s.version++
			r.mu.Lock()
			delete(r.byID, bookingID)
			r.mu.Unlock()
			return nil
		}
	}
	return ErrBookingNotFound
}

func (r *MemoryLedgerRepo) TransitionBooking(_ context.Context, providerID string, version int64, bookingID string, from, to models.BookingStatus, supersededBy string) error {
	s := r.set(providerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return ErrVersionConflict
	}
	for i := range s.bookings {
		if s.bookings[i].ID != bookingID {
			continue
		}
		if s.bookings[i].Status != from {
			return ErrStatusMismatch
		}
		s.bookings[i].Status = to
		s.bookings[i].UpdatedAt = time.Now()
		if supersededBy != "" {
			s.bookings[i].SupersededBy = supersededBy
		}
		s.version++
		return nil
	}
	return ErrBookingNotFound
}

func (r *MemoryLedgerRepo) SwapBooking(_ context.Context, providerID string, version int64, oldID string, nb models.Booking) error {
	s := r.set(providerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return ErrVersionConflict
	}
	for i := range s.bookings {
		if s.bookings[i].ID != oldID {
			continue
		}
		if s.bookings[i].Status != models.BookingStatusConfirmed {
			return ErrStatusMismatch
		}
		s.bookings[i].Status = models.BookingStatusRescheduled
		s.bookings[i].SupersededBy = nb.ID
		s.bookings[i].UpdatedAt = time.Now()
		s.bookings = append(s.bookings, nb)
		s.version++

		r.mu.Lock()
		r.byID[nb.ID] = providerID
		r.mu.Unlock()
		return nil
	}
	return ErrBookingNotFound
}

func (r *MemoryLedgerRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.RLock()
	providerID, ok := r.byID[bookingID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrBookingNotFound
	}
	set, err := r.Snapshot(ctx, providerID)
	if err != nil {
		return nil, err
	}
	for _, b := range set.Bookings {
		if b.ID == bookingID {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *MemoryLedgerRepo) ConfirmedInRange(ctx context.Context, providerID string, window models.Interval) ([]models.Booking, error) {
	set, err := r.Snapshot(ctx, providerID)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for _, b := range set.Confirmed() {
		if b.Interval().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryLedgerRepo) ActiveForCaller(_ context.Context, callerID string) ([]models.Booking, error) {
	r.mu.RLock()
	sets := make([]*memorySet, 0, len(r.sets))
	for _, s := range r.sets {
		sets = append(sets, s)
	}
	r.mu.RUnlock()

	var out []models.Booking
	for _, s := range sets {
		s.mu.Lock()
		for _, b := range s.bookings {
			if b.Caller.CallerID != callerID {
				continue
			}
			if b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed {
				out = append(out, b)
			}
		}
		s.mu.Unlock()
	}
	return out, nil
}
