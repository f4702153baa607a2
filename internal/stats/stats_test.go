package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probook/prodash/pkg/models"
)

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func TestForRequests(t *testing.T) {
	testCases := []struct {
		name     string
		requests []models.ServiceRequest
		expected models.RequestStats
	}{
		{
			name:     "empty dataset",
			requests: nil,
			expected: models.RequestStats{},
		},
		{
			name: "open and closed partition",
			requests: []models.ServiceRequest{
				{Status: models.RequestStatusOpen, ResponsesCount: 2},
				{Status: models.RequestStatusOpen},
				{Status: "closed", ResponsesCount: 5},
				{Status: "expired"},
			},
			expected: models.RequestStats{Total: 4, Open: 2, Closed: 2, Responses: 7},
		},
		{
			name: "absent response counts count as zero",
			requests: []models.ServiceRequest{
				{Status: models.RequestStatusOpen},
				{Status: models.RequestStatusOpen},
			},
			expected: models.RequestStats{Total: 2, Open: 2, Responses: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ForRequests(tc.requests))
		})
	}
}

func TestForBookingsStatusPartition(t *testing.T) {
	now := time.Now()
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed},
		{Status: models.BookingStatusPending},
		{Status: models.BookingStatusPricePending},
		{Status: models.BookingStatusPriceProposed},
		{Status: models.BookingStatusDeclined},
		{Status: models.BookingStatusCancelled},
		{Status: "no_show"}, // unknown status counts only toward total
	}

	s := ForBookings(bookings, now)

	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 1, s.Confirmed)
	assert.Equal(t, 3, s.Pending)
	assert.Equal(t, 2, s.Cancelled)
	assert.LessOrEqual(t, s.Confirmed+s.Pending+s.Cancelled, s.Total)
}

func TestForBookingsUpcomingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed, ScheduledAt: ts(now.Add(2 * time.Hour))},
		{Status: models.BookingStatusPending, ScheduledAt: ts(now.Add(10 * 24 * time.Hour))},
		{Status: models.BookingStatusConfirmed, ScheduledAt: ts(now.Add(-time.Hour))},
		{Status: models.BookingStatusCancelled, ScheduledAt: ts(now.Add(time.Hour))},
		{Status: models.BookingStatusDeclined, ScheduledAt: ts(now.Add(time.Hour))},
		{Status: models.BookingStatusConfirmed, ScheduledAt: "not-a-date"},
		{Status: models.BookingStatusConfirmed},
	}

	s := ForBookings(bookings, now)

	assert.Equal(t, 2, s.Upcoming, "past, cancelled/declined and unparseable schedules are excluded")
	assert.Equal(t, 1, s.UpcomingWeek)
	assert.Equal(t, now.Add(2*time.Hour), s.NextBookingTime)
}

func TestForBookingsScheduledExactlyNowIsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := ForBookings([]models.Booking{
		{Status: models.BookingStatusConfirmed, ScheduledAt: ts(now)},
	}, now)
	assert.Equal(t, 1, s.Upcoming)
}

func TestForBookingsLastCreatedIgnoresStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-time.Hour)
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed, CreatedAt: ts(now.Add(-48 * time.Hour))},
		{Status: models.BookingStatusCancelled, CreatedAt: ts(latest)},
		{Status: models.BookingStatusPending, CreatedAt: "garbage"},
	}

	s := ForBookings(bookings, now)
	assert.Equal(t, latest, s.LastCreatedTime)
}

func TestForBookingsNoParseableTimesLeavesZeroes(t *testing.T) {
	s := ForBookings([]models.Booking{
		{Status: models.BookingStatusConfirmed, ScheduledAt: "???", CreatedAt: ""},
	}, time.Now())
	assert.True(t, s.NextBookingTime.IsZero())
	assert.True(t, s.LastCreatedTime.IsZero())
}

// The worked loyalty example: one client with a confirmed upcoming booking and
// a cancelled one still counts two visits.
func TestForBookingsClientAggregationExample(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{
			Status:      models.BookingStatusConfirmed,
			ScheduledAt: ts(now.Add(time.Hour)),
			ClientID:    "1",
			ClientName:  "Анна",
			CreatedAt:   ts(now.Add(-24 * time.Hour)),
		},
		{
			Status:      models.BookingStatusCancelled,
			ScheduledAt: ts(now.Add(2 * time.Hour)),
			ClientID:    "1",
			ClientName:  "Анна",
			CreatedAt:   ts(now),
		},
	}

	s := ForBookings(bookings, now)

	assert.Equal(t, 1, s.Confirmed)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, 1, s.Upcoming)
	assert.Equal(t, now.Add(time.Hour), s.NextBookingTime)
	assert.Equal(t, 1, s.UniqueClients)
	assert.Equal(t, 1, s.RepeatClients)
	require.Len(t, s.ClientSummaries, 1)
	assert.Equal(t, 2, s.ClientSummaries[0].Count)
	assert.Equal(t, "Анна", s.ClientSummaries[0].Name)
	assert.Equal(t, now, s.ClientSummaries[0].LastSeen)
	assert.Equal(t, []string{"Анна"}, s.RecentClients)
}

func TestForBookingsClientCountsPartitionBookings(t *testing.T) {
	now := time.Now()
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed, ClientID: "a", ClientName: "A"},
		{Status: models.BookingStatusPending, ClientID: "a", ClientName: "A"},
		{Status: models.BookingStatusConfirmed, ClientID: "b", ClientName: "B"},
		{Status: models.BookingStatusConfirmed}, // no client id
		{Status: models.BookingStatusConfirmed, ClientID: "  "},
	}

	s := ForBookings(bookings, now)

	withClient := 3
	total := 0
	for _, c := range s.ClientSummaries {
		total += c.Count
	}
	assert.Equal(t, withClient, total)
	assert.Equal(t, len(s.ClientSummaries), s.UniqueClients)
	assert.Equal(t, 1, s.RepeatClients)
}

func TestForBookingsNumericClientIDsCoalesce(t *testing.T) {
	var b models.Booking
	require.NoError(t, b.ClientID.UnmarshalJSON([]byte(`7`)))
	bookings := []models.Booking{
		b,
		{ClientID: "7"},
	}
	s := ForBookings(bookings, time.Now())
	require.Len(t, s.ClientSummaries, 1)
	assert.Equal(t, 2, s.ClientSummaries[0].Count)
}

func TestForBookingsRanking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seen := func(d time.Duration) string { return ts(now.Add(-d)) }

	bookings := []models.Booking{
		// "old" seen long ago but many times.
		{ClientID: "old", ClientName: "Old", CreatedAt: seen(72 * time.Hour)},
		{ClientID: "old", ClientName: "Old", CreatedAt: seen(80 * time.Hour)},
		{ClientID: "old", ClientName: "Old", CreatedAt: seen(90 * time.Hour)},
		// "fresh" seen most recently.
		{ClientID: "fresh", ClientName: "Fresh", CreatedAt: seen(time.Hour)},
		// "tied" shares fresh's last-seen instant but has two visits.
		{ClientID: "tied", ClientName: "Tied", CreatedAt: seen(time.Hour)},
		{ClientID: "tied", ClientName: "Tied", CreatedAt: seen(48 * time.Hour)},
		// "nowhen" never parsed a creation time, ranks last.
		{ClientID: "nowhen", ClientName: "Nowhen", CreatedAt: "invalid"},
	}

	s := ForBookings(bookings, now)

	require.Len(t, s.ClientSummaries, 4)
	assert.Equal(t, "tied", s.ClientSummaries[0].ID, "equal last-seen ties break by count")
	assert.Equal(t, "fresh", s.ClientSummaries[1].ID)
	assert.Equal(t, "old", s.ClientSummaries[2].ID)
	assert.Equal(t, "nowhen", s.ClientSummaries[3].ID, "missing last-seen sorts last")
	assert.Equal(t, []string{"Tied", "Fresh", "Old"}, s.RecentClients)
}

func TestForBookingsRankingIsInsertionStable(t *testing.T) {
	now := time.Now()
	// Same count, no last-seen for any: insertion order must hold.
	bookings := []models.Booking{
		{ClientID: "first", ClientName: "First"},
		{ClientID: "second", ClientName: "Second"},
		{ClientID: "third", ClientName: "Third"},
	}

	for i := 0; i < 20; i++ {
		s := ForBookings(bookings, now)
		require.Len(t, s.ClientSummaries, 3)
		assert.Equal(t, "first", s.ClientSummaries[0].ID)
		assert.Equal(t, "second", s.ClientSummaries[1].ID)
		assert.Equal(t, "third", s.ClientSummaries[2].ID)
	}
}

func TestForBookingsLatestNameWinsAndBlankFallsBack(t *testing.T) {
	now := time.Now()
	s := ForBookings([]models.Booking{
		{ClientID: "1", ClientName: "  Anna  "},
		{ClientID: "1", ClientName: "Anna K."},
	}, now)
	require.Len(t, s.ClientSummaries, 1)
	assert.Equal(t, "Anna K.", s.ClientSummaries[0].Name)

	s = ForBookings([]models.Booking{
		{ClientID: "2", ClientName: "   "},
	}, now)
	require.Len(t, s.ClientSummaries, 1)
	assert.Equal(t, PlaceholderClientName, s.ClientSummaries[0].Name)
}

func TestForBookingsIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed, ScheduledAt: ts(now.Add(time.Hour)), ClientID: "1", ClientName: "A", CreatedAt: ts(now.Add(-time.Hour))},
		{Status: models.BookingStatusPending, ClientID: "2", ClientName: "B"},
	}

	first := ForBookings(bookings, now)
	second := ForBookings(bookings, now)
	assert.Equal(t, first, second)
}

func TestParseTimeLayouts(t *testing.T) {
	testCases := []struct {
		value string
		ok    bool
	}{
		{"2026-03-01T12:00:00Z", true},
		{"2026-03-01T12:00:00.123Z", true},
		{"2026-03-01T12:00:00+03:00", true},
		{"2026-03-01T12:00:00", true},
		{"2026-03-01", true},
		{"  2026-03-01  ", true},
		{"", false},
		{"tomorrow", false},
		{"1700000000", false},
	}

	for _, tc := range testCases {
		_, ok := parseTime(tc.value)
		assert.Equal(t, tc.ok, ok, "value %q", tc.value)
	}
}
