package scheduling

import (
	"context"
	"errors"
	"time"

	ledgerRepo "frontdesk/database/repository/ledger"
	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"
)

// AvailabilityStore is the pure read path over a provider's calendar: the
// weekly working-hour template instantiated across a window, with time-off
// and already-confirmed bookings subtracted.
type AvailabilityStore struct {
	Providers providerRepo.ProviderRepository
	Ledger    ledgerRepo.LedgerRepository
}

// GetOpenIntervals returns the provider's bookable intervals inside window,
// ordered and pairwise non-overlapping. No availability yields an empty
// slice, not an error.
func (a *AvailabilityStore) GetOpenIntervals(ctx context.Context, providerID string, window models.Interval) ([]models.Interval, error) {
	p, err := a.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, NewUnknownProviderError(providerID)
		}
		return nil, err
	}
	if !window.End.After(window.Start) {
		return nil, nil
	}

	var working []models.Interval
	// Walk each calendar day the window touches, starting at midnight so a
	// window ending shortly after midnight still sees that day's template.
	first := time.Date(window.Start.Year(), window.Start.Month(), window.Start.Day(), 0, 0, 0, 0, window.Start.Location())
	for day := first; day.Before(window.End); day = day.AddDate(0, 0, 1) {
		for _, iv := range p.WindowsOn(day) {
			if clamped, ok := iv.Clamp(window); ok {
				working = append(working, clamped)
			}
		}
	}
	working = models.SubtractIntervals(working, p.TimeOff)
	if len(working) == 0 {
		return nil, nil
	}

	booked, err := a.Ledger.ConfirmedInRange(ctx, providerID, window)
	if err != nil {
		return nil, err
	}
	var busy []models.Interval
	for _, b := range booked {
		busy = append(busy, b.Interval())
	}
	return models.SubtractIntervals(working, busy), nil
}
