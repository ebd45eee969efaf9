package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	ledgerRepo "frontdesk/database/repository/ledger"
	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"
)

// SlotResolver turns a requested time range into ranked candidate slots.
// Its reads are deliberately unsynchronized with ledger writes: candidates
// can go stale between resolution and commit, and the ledger's atomic
// re-check is what keeps that safe.
type SlotResolver struct {
	Availability *AvailabilityStore
	Providers    providerRepo.ProviderRepository
	Ledger       ledgerRepo.LedgerRepository

	// Granularity is the candidate stepping interval (default 15 min).
	Granularity time.Duration
}

func (r *SlotResolver) granularity() time.Duration {
	if r.Granularity > 0 {
		return r.Granularity
	}
	return 15 * time.Minute
}

// FindCandidates generates candidate slots for the given providers (all
// registered providers when the set is empty) inside [earliest, latest),
// ranked best-first. Deterministic for identical store state and inputs.
// An empty result is a normal outcome.
func (r *SlotResolver) FindCandidates(ctx context.Context, providerIDs []string, callerID string, earliest, latest time.Time, duration time.Duration, limit int) ([]models.CandidateSlot, error) {
	if duration <= 0 || !latest.After(earliest) {
		return nil, nil
	}

	providers, err := r.resolveProviders(ctx, providerIDs)
	if err != nil {
		return nil, err
	}

	continuity, err := r.continuityProviders(ctx, callerID)
	if err != nil {
		return nil, err
	}

	window := models.Interval{Start: earliest, End: latest}
	step := r.granularity()
	var candidates []models.CandidateSlot
	for _, p := range providers {
		open, err := r.Availability.GetOpenIntervals(ctx, p.ID, window)
		if err != nil {
			return nil, err
		}
		for _, iv := range open {
			for start := iv.Start; !start.Add(duration).After(iv.End); start = start.Add(step) {
				candidates = append(candidates, models.CandidateSlot{
					ProviderID: p.ID,
					Start:      start,
					Duration:   duration,
					Score:      start.Sub(earliest).Minutes(),
					Continuity: continuity[p.ID],
					Priority:   p.Priority,
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.Continuity != b.Continuity {
			return a.Continuity
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ProviderID < b.ProviderID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (r *SlotResolver) resolveProviders(ctx context.Context, providerIDs []string) ([]models.Provider, error) {
	if len(providerIDs) == 0 {
		return r.Providers.GetAll(ctx)
	}
	var out []models.Provider
	for _, id := range providerIDs {
		p, err := r.Providers.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, providerRepo.ErrProviderNotFound) {
				return nil, NewUnknownProviderError(id)
			}
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// continuityProviders marks providers the caller already has an active
// booking with, so ties rank toward keeping the same physician.
func (r *SlotResolver) continuityProviders(ctx context.Context, callerID string) (map[string]bool, error) {
	out := make(map[string]bool)
	if callerID == "" {
		return out, nil
	}
	active, err := r.Ledger.ActiveForCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	for _, b := range active {
		out[b.ProviderID] = true
	}
	return out, nil
}
