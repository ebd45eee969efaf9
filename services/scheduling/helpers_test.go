package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	ledgerRepo "frontdesk/database/repository/ledger"
	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"

	"github.com/stretchr/testify/require"
)

// monday is the anchor day for every test calendar.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayAt(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// weekdayProvider works Monday through Friday, 9:00 to 17:00.
func weekdayProvider(id string, priority int) models.Provider {
	var hours []models.WorkingWindow
	for day := time.Monday; day <= time.Friday; day++ {
		hours = append(hours, models.WorkingWindow{Day: day, Start: 540, End: 1020})
	}
	return models.Provider{
		ID:           id,
		Name:         "Dr. " + id,
		Priority:     priority,
		WorkingHours: hours,
	}
}

type fixture struct {
	providers *providerRepo.MemoryProviderRepo
	ledger    *ledgerRepo.MemoryLedgerRepo

	availability *AvailabilityStore
	resolver     *SlotResolver
	booking      *BookingLedger
}

func newFixture(t *testing.T, providers ...models.Provider) *fixture {
	t.Helper()
	f := &fixture{
		providers: providerRepo.NewMemoryProviderRepo(),
		ledger:    ledgerRepo.NewMemoryLedgerRepo(),
	}
	for i := range providers {
		providers[i].Normalize()
		require.NoError(t, f.providers.Create(context.Background(), &providers[i]))
	}
	f.availability = &AvailabilityStore{Providers: f.providers, Ledger: f.ledger}
	f.resolver = &SlotResolver{
		Availability: f.availability,
		Providers:    f.providers,
		Ledger:       f.ledger,
		Granularity:  15 * time.Minute,
	}
	f.booking = &BookingLedger{Repo: f.ledger}
	return f
}

// mustCommit books a slot directly against the ledger, bypassing the engine.
func (f *fixture) mustCommit(t *testing.T, providerID string, start time.Time, d time.Duration, caller models.CallerIdentity) *models.Booking {
	t.Helper()
	b, err := f.booking.Commit(context.Background(), models.CandidateSlot{
		ProviderID: providerID,
		Start:      start,
		Duration:   d,
	}, caller)
	require.NoError(t, err)
	return b
}

// recordingDispatcher captures notification traffic for assertions.
type recordingDispatcher struct {
	mu        sync.Mutex
	requests  []models.NotificationRequest
	reminders []string
	fail      error
}

func (d *recordingDispatcher) Enqueue(_ context.Context, req models.NotificationRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return d.fail
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *recordingDispatcher) EnqueueReminder(_ context.Context, bookingID string, _ time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return d.fail
	}
	d.reminders = append(d.reminders, bookingID)
	return nil
}

func (d *recordingDispatcher) sent() []models.NotificationRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.NotificationRequest(nil), d.requests...)
}
