package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"frontdesk/models"

	"github.com/stretchr/testify/require"
)

func newEngine(f *fixture, d *recordingDispatcher) *Engine {
	return &Engine{
		Resolver:   f.resolver,
		Ledger:     f.booking,
		Dispatcher: d,
	}
}

func bookIntent(id, callerID string, earliest, latest time.Time) models.SchedulingIntent {
	return models.SchedulingIntent{
		ID:   id,
		Kind: models.IntentBook,
		Caller: models.CallerIdentity{
			CallerID: callerID,
			Name:     "Pat Doe",
			Email:    "pat@example.com",
		},
		Window: models.TimeRange{Earliest: earliest, Latest: latest, Duration: 30 * time.Minute},
	}
}

func TestSubmitIntentBooks(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	d := &recordingDispatcher{}
	e := newEngine(f, d)

	out, err := e.SubmitIntent(context.Background(), bookIntent("i1", "c1", mondayAt(9, 0), mondayAt(12, 0)))
	require.NoError(t, err)
	require.Equal(t, StateNotified, out.State)
	require.NotNil(t, out.Booking)
	require.Equal(t, models.BookingStatusConfirmed, out.Booking.Status)
	require.Equal(t, mondayAt(9, 0), out.Booking.Start)

	sent := d.sent()
	require.Len(t, sent, 1)
	require.Equal(t, models.NotificationConfirmed, sent[0].Kind)
	require.Equal(t, out.Booking.ID, sent[0].BookingID)
	require.Equal(t, []string{out.Booking.ID}, d.reminders)
}

func TestSubmitIntentNoAvailability(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	// Sunday: the provider does not work.
	sunday := monday.AddDate(0, 0, -1)
	out, err := e.SubmitIntent(context.Background(),
		bookIntent("i1", "c1", sunday.Add(9*time.Hour), sunday.Add(17*time.Hour)))
	require.NoError(t, err)
	require.Equal(t, StateNoAvailability, out.State)
	require.Nil(t, out.Booking)
}

func TestSubmitIntentValidation(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	tests := []struct {
		name   string
		intent models.SchedulingIntent
	}{
		{"zero duration", models.SchedulingIntent{
			Kind:   models.IntentBook,
			Window: models.TimeRange{Earliest: mondayAt(9, 0), Latest: mondayAt(10, 0)},
		}},
		{"empty range", models.SchedulingIntent{
			Kind:   models.IntentBook,
			Window: models.TimeRange{Earliest: mondayAt(10, 0), Latest: mondayAt(10, 0), Duration: 30 * time.Minute},
		}},
		{"reschedule without booking", models.SchedulingIntent{
			Kind:   models.IntentReschedule,
			Window: models.TimeRange{Earliest: mondayAt(9, 0), Latest: mondayAt(10, 0), Duration: 30 * time.Minute},
		}},
		{"cancel without booking", models.SchedulingIntent{Kind: models.IntentCancel}},
		{"unrecognized kind", models.SchedulingIntent{Kind: "renew"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.SubmitIntent(context.Background(), tt.intent)
			require.Error(t, err)
			require.True(t, IsInvalidIntent(err))
		})
	}
}

func TestSubmitIntentUnknownProvider(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	intent := bookIntent("i1", "c1", mondayAt(9, 0), mondayAt(12, 0))
	intent.ProviderIDs = []string{"ghost"}
	_, err := e.SubmitIntent(context.Background(), intent)
	require.Error(t, err)
	require.True(t, IsUnknownProvider(err))
}

func TestSubmitIntentCancel(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	d := &recordingDispatcher{}
	e := newEngine(f, d)

	b := f.mustCommit(t, "adams", mondayAt(9, 0), 30*time.Minute,
		models.CallerIdentity{CallerID: "c1", Email: "pat@example.com"})

	out, err := e.SubmitIntent(context.Background(), models.SchedulingIntent{
		ID:        "i-cancel",
		Kind:      models.IntentCancel,
		BookingID: b.ID,
	})
	require.NoError(t, err)
	require.Equal(t, StateCancelled, out.State)
	require.Equal(t, models.BookingStatusCancelled, out.Booking.Status)

	sent := d.sent()
	require.Len(t, sent, 1)
	require.Equal(t, models.NotificationCancelled, sent[0].Kind)
	require.Empty(t, d.reminders, "cancellations never schedule reminders")
}

func TestSubmitIntentReschedule(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	d := &recordingDispatcher{}
	e := newEngine(f, d)

	b := f.mustCommit(t, "adams", mondayAt(9, 0), 30*time.Minute,
		models.CallerIdentity{CallerID: "c1", Email: "pat@example.com"})

	out, err := e.SubmitIntent(context.Background(), models.SchedulingIntent{
		ID:        "i-resched",
		Kind:      models.IntentReschedule,
		Caller:    models.CallerIdentity{CallerID: "c1"},
		BookingID: b.ID,
		Window:    models.TimeRange{Earliest: mondayAt(14, 0), Latest: mondayAt(16, 0), Duration: 30 * time.Minute},
	})
	require.NoError(t, err)
	require.Equal(t, StateNotified, out.State)
	require.Equal(t, mondayAt(14, 0), out.Booking.Start)
	require.Equal(t, b.ID, out.Booking.Supersedes)

	sent := d.sent()
	require.Len(t, sent, 1)
	require.Equal(t, models.NotificationRescheduled, sent[0].Kind)
}

func TestSubmitIntentConcurrentSameSlot(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	// A window with room for exactly one 30-minute visit.
	const callers = 4
	var wg sync.WaitGroup
	outcomes := make([]Outcome, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = e.SubmitIntent(context.Background(),
				bookIntent(fmt.Sprintf("i%d", i), fmt.Sprintf("c%d", i), mondayAt(9, 0), mondayAt(9, 30)))
		}(i)
	}
	wg.Wait()

	notified := 0
	for i := range outcomes {
		require.NoError(t, errs[i])
		switch outcomes[i].State {
		case StateNotified:
			notified++
		case StateNoAvailability, StateSchedulingFailed:
		default:
			t.Errorf("unexpected terminal state %q", outcomes[i].State)
		}
	}
	require.Equal(t, 1, notified, "exactly one caller should win the slot")

	set, err := f.ledger.Snapshot(context.Background(), "adams")
	require.NoError(t, err)
	require.Len(t, set.Confirmed(), 1)
}

func TestSubmitIntentSkipsTakenSlot(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	// 9:00 is gone; the intent should land on 9:30 rather than giving up.
	f.mustCommit(t, "adams", mondayAt(9, 0), 30*time.Minute, models.CallerIdentity{CallerID: "other"})

	out, err := e.SubmitIntent(context.Background(), bookIntent("i1", "c1", mondayAt(9, 0), mondayAt(10, 0)))
	require.NoError(t, err)
	require.Equal(t, StateNotified, out.State)
	require.Equal(t, mondayAt(9, 30), out.Booking.Start)
}

func TestSubmitIntentNotifierFailureKeepsBooking(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	d := &recordingDispatcher{fail: errors.New("queue down")}
	e := newEngine(f, d)

	out, err := e.SubmitIntent(context.Background(), bookIntent("i1", "c1", mondayAt(9, 0), mondayAt(12, 0)))
	require.NoError(t, err)
	require.Equal(t, StateNotified, out.State)

	stored, err := f.ledger.GetBooking(context.Background(), out.Booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusConfirmed, stored.Status)
}

func TestSubmitIntentCancelledContext(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	e := newEngine(f, &recordingDispatcher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.SubmitIntent(ctx, bookIntent("i1", "c1", mondayAt(9, 0), mondayAt(12, 0)))
	require.ErrorIs(t, err, context.Canceled)
}
