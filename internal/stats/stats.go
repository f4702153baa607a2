// Package stats derives the dashboard read-models from raw request and
// booking datasets. Everything here is pure: no I/O, no shared state, safe to
// recompute on every refresh.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/probook/prodash/pkg/models"
)

// PlaceholderClientName is used when a booking carries a client id but no
// usable client name.
const PlaceholderClientName = "Client"

const upcomingWindow = 7 * 24 * time.Hour

// timeLayouts are tried in order when parsing backend timestamps. The backend
// normally emits RFC3339 but older records carry second precision or bare
// dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime returns the parsed instant and whether the value was usable.
func parseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ForRequests computes RequestStats over a raw request dataset.
func ForRequests(requests []models.ServiceRequest) models.RequestStats {
	var s models.RequestStats
	s.Total = len(requests)
	for _, r := range requests {
		if r.Status == models.RequestStatusOpen {
			s.Open++
		}
		s.Responses += r.ResponsesCount
	}
	s.Closed = s.Total - s.Open
	return s
}

// clientRecord is the per-client accumulator for one aggregation pass.
type clientRecord struct {
	summary models.ClientSummary
	order   int // first-seen position, the final tie-break
}

// ForBookings computes BookingStats over a raw booking dataset, evaluated
// against the supplied snapshot of now. A single linear pass fuses the status
// counters with the per-client accumulation; only the client ranking costs
// more than O(n).
func ForBookings(bookings []models.Booking, now time.Time) models.BookingStats {
	var s models.BookingStats
	s.Total = len(bookings)
	weekEnd := now.Add(upcomingWindow)

	clients := make(map[string]*clientRecord)

	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusConfirmed:
			s.Confirmed++
		case models.BookingStatusPending, models.BookingStatusPricePending, models.BookingStatusPriceProposed:
			s.Pending++
		case models.BookingStatusDeclined, models.BookingStatusCancelled:
			s.Cancelled++
		}

		terminal := b.Status == models.BookingStatusDeclined || b.Status == models.BookingStatusCancelled

		// A booking without a parseable schedule never counts as upcoming.
		if at, ok := parseTime(b.ScheduledAt); ok && !terminal && !at.Before(now) {
			s.Upcoming++
			if at.Before(weekEnd) {
				s.UpcomingWeek++
			}
			if s.NextBookingTime.IsZero() || at.Before(s.NextBookingTime) {
				s.NextBookingTime = at
			}
		}

		created, createdOK := parseTime(b.CreatedAt)
		if createdOK && created.After(s.LastCreatedTime) {
			s.LastCreatedTime = created
		}

		id := strings.TrimSpace(b.ClientID.String())
		if id == "" {
			continue
		}
		rec, ok := clients[id]
		if !ok {
			rec = &clientRecord{summary: models.ClientSummary{ID: id}, order: len(clients)}
			clients[id] = rec
		}
		rec.summary.Count++
		name := strings.TrimSpace(b.ClientName)
		if name == "" {
			name = PlaceholderClientName
		}
		rec.summary.Name = name
		// A booking without a valid creation time still counts a visit.
		if createdOK && created.After(rec.summary.LastSeen) {
			rec.summary.LastSeen = created
		}
	}

	ranked := make([]*clientRecord, 0, len(clients))
	for _, rec := range clients {
		ranked = append(ranked, rec)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.summary.LastSeen.Equal(b.summary.LastSeen) {
			return a.summary.LastSeen.After(b.summary.LastSeen)
		}
		if a.summary.Count != b.summary.Count {
			return a.summary.Count > b.summary.Count
		}
		return a.order < b.order
	})

	s.UniqueClients = len(ranked)
	s.ClientSummaries = make([]models.ClientSummary, 0, len(ranked))
	for _, rec := range ranked {
		if rec.summary.Count > 1 {
			s.RepeatClients++
		}
		s.ClientSummaries = append(s.ClientSummaries, rec.summary)
	}
	for i := 0; i < len(s.ClientSummaries) && i < 3; i++ {
		s.RecentClients = append(s.RecentClients, s.ClientSummaries[i].Name)
	}
	return s
}
