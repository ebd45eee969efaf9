package scheduling

import (
	"context"
	"testing"
	"time"

	"frontdesk/models"

	"github.com/stretchr/testify/require"
)

func TestGetOpenIntervalsUnknownProvider(t *testing.T) {
	f := newFixture(t)
	_, err := f.availability.GetOpenIntervals(context.Background(), "nope",
		models.Interval{Start: mondayAt(9, 0), End: mondayAt(17, 0)})
	require.Error(t, err)
	require.True(t, IsUnknownProvider(err))
}

func TestGetOpenIntervalsClampsTemplateToWindow(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))

	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(8, 0), End: mondayAt(10, 0)})
	require.NoError(t, err)
	require.Equal(t, []models.Interval{{Start: mondayAt(9, 0), End: mondayAt(10, 0)}}, open)
}

func TestGetOpenIntervalsSpansDays(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))

	// Monday noon through Tuesday noon touches two working days.
	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(12, 0), End: mondayAt(36, 0)})
	require.NoError(t, err)
	require.Equal(t, []models.Interval{
		{Start: mondayAt(12, 0), End: mondayAt(17, 0)},
		{Start: mondayAt(33, 0), End: mondayAt(36, 0)}, // Tuesday 9:00-12:00
	}, open)
}

func TestGetOpenIntervalsSubtractsTimeOff(t *testing.T) {
	p := weekdayProvider("adams", 0)
	p.TimeOff = []models.Interval{{Start: mondayAt(12, 0), End: mondayAt(13, 0)}}
	f := newFixture(t, p)

	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(9, 0), End: mondayAt(17, 0)})
	require.NoError(t, err)
	require.Equal(t, []models.Interval{
		{Start: mondayAt(9, 0), End: mondayAt(12, 0)},
		{Start: mondayAt(13, 0), End: mondayAt(17, 0)},
	}, open)
}

func TestGetOpenIntervalsSubtractsConfirmedBookings(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	f.mustCommit(t, "adams", mondayAt(9, 0), 30*time.Minute, models.CallerIdentity{CallerID: "c1"})

	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(9, 0), End: mondayAt(12, 0)})
	require.NoError(t, err)
	require.Equal(t, []models.Interval{{Start: mondayAt(9, 30), End: mondayAt(12, 0)}}, open)
}

func TestGetOpenIntervalsIgnoresCancelledBookings(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))
	b := f.mustCommit(t, "adams", mondayAt(9, 0), 30*time.Minute, models.CallerIdentity{CallerID: "c1"})
	_, err := f.booking.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(9, 0), End: mondayAt(12, 0)})
	require.NoError(t, err)
	require.Equal(t, []models.Interval{{Start: mondayAt(9, 0), End: mondayAt(12, 0)}}, open)
}

func TestGetOpenIntervalsEmptyWindow(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))

	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: mondayAt(10, 0), End: mondayAt(10, 0)})
	require.NoError(t, err)
	require.Empty(t, open)
}

func TestGetOpenIntervalsOutsideWorkingDays(t *testing.T) {
	f := newFixture(t, weekdayProvider("adams", 0))

	saturday := monday.AddDate(0, 0, 5)
	open, err := f.availability.GetOpenIntervals(context.Background(), "adams",
		models.Interval{Start: saturday.Add(9 * time.Hour), End: saturday.Add(17 * time.Hour)})
	require.NoError(t, err)
	require.Empty(t, open)
}
