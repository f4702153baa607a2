package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Request and booking statuses as the marketplace backend reports them.
const (
	RequestStatusOpen = "open"

	BookingStatusConfirmed     = "confirmed"
	BookingStatusPending       = "pending"
	BookingStatusPricePending  = "price_pending"
	BookingStatusPriceProposed = "price_proposed"
	BookingStatusDeclined      = "declined"
	BookingStatusCancelled     = "cancelled"
)

// FlexID is a backend identifier that may arrive as a JSON string or number.
// It always canonicalizes to a string.
type FlexID string

// UnmarshalJSON accepts "42", 42 and 42.0 alike.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexID(strconv.FormatInt(i, 10))
		return nil
	}
	// Integral floats like 42.0 must coalesce with "42" from a string field.
	if v, err := n.Float64(); err == nil && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		*f = FlexID(strconv.FormatInt(int64(v), 10))
		return nil
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// ServiceRequest is a client's published service request, read-only to us.
type ServiceRequest struct {
	ID             FlexID `json:"id"`
	Status         string `json:"status"`
	Title          string `json:"title"`
	ResponsesCount int    `json:"responsesCount"`
	CreatedAt      string `json:"createdAt"`
}

// Booking is a scheduled (or attempted) job for the professional.
// Timestamps stay in their wire form; parsing happens during aggregation so a
// malformed value degrades a single field instead of failing the decode.
type Booking struct {
	ID          FlexID `json:"id"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduledAt"`
	CreatedAt   string `json:"createdAt"`
	ClientID    FlexID `json:"clientId"`
	ClientName  string `json:"clientName"`
	Service     string `json:"service"`
}

// RequestStats is the derived read-model for service requests.
type RequestStats struct {
	Total     int
	Open      int
	Closed    int
	Responses int
}

// ClientSummary aggregates the bookings sharing one client id.
// A zero LastSeen means no booking for the client carried a parseable
// creation time.
type ClientSummary struct {
	ID       string
	Name     string
	Count    int
	LastSeen time.Time
}

// BookingStats is the derived read-model for bookings, evaluated against a
// single snapshot of "now". Zero NextBookingTime/LastCreatedTime mean "none".
type BookingStats struct {
	Total     int
	Confirmed int
	Pending   int
	Cancelled int

	Upcoming        int
	UpcomingWeek    int
	NextBookingTime time.Time
	LastCreatedTime time.Time

	UniqueClients   int
	RepeatClients   int
	RecentClients   []string
	ClientSummaries []ClientSummary
}
