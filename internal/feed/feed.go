// Package feed is the data layer of the dashboard: it coordinates fetches of
// the professional's service requests and bookings, caches them per
// (backend, user) scope, and derives the aggregate statistics the screens
// render. Presentation code only reads snapshots and triggers refreshes.
package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/probook/prodash/internal/cache"
	"github.com/probook/prodash/internal/stats"
	"github.com/probook/prodash/pkg/models"
)

// Fixed user-facing failure messages; prior data is always retained on
// failure, so a banner plus stale data is the worst case a screen shows.
const (
	RequestsErrMsg = "Could not load service requests"
	BookingsErrMsg = "Could not load bookings"
)

// Fetcher is the transport the feed pulls datasets through. *backend.Client
// implements it; tests substitute stubs.
type Fetcher interface {
	FetchRequests(ctx context.Context, userID string) ([]models.ServiceRequest, error)
	FetchBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

// Snapshot is an immutable view of the feed state at one instant. Slices are
// replaced wholesale on publish, never mutated, so holding a snapshot across
// later refreshes is safe.
type Snapshot struct {
	Requests []models.ServiceRequest
	Bookings []models.Booking

	RequestStats models.RequestStats
	BookingStats models.BookingStats
	LastUpdated  time.Time

	RequestsLoading bool
	BookingsLoading bool
	RequestsError   string
	BookingsError   string
}

// Loading reports whether either resource is visibly loading.
func (s Snapshot) Loading() bool { return s.RequestsLoading || s.BookingsLoading }

// Err returns the combined error banner text, requests taking precedence.
func (s Snapshot) Err() string {
	if s.RequestsError != "" {
		return s.RequestsError
	}
	return s.BookingsError
}

// Feed wires the cache store, the two fetch coordinators and the aggregation
// step into one reactive unit per (backend, user) scope.
type Feed struct {
	store   *cache.Store
	fetcher Fetcher

	ctx    context.Context
	cancel context.CancelFunc

	requestsCoord *Coordinator
	bookingsCoord *Coordinator

	mu           sync.Mutex
	base         string
	userID       string
	key          string
	requests     []models.ServiceRequest
	bookings     []models.Booking
	requestStats models.RequestStats
	bookingStats models.BookingStats
	lastUpdated  time.Time

	updates chan struct{}
}

// New creates a feed over the given store and transport. Call SetScope to
// start loading.
func New(store *cache.Store, fetcher Fetcher) *Feed {
	ctx, cancel := context.WithCancel(context.Background())
	return &Feed{
		store:         store,
		fetcher:       fetcher,
		ctx:           ctx,
		cancel:        cancel,
		requestsCoord: NewCoordinator(),
		bookingsCoord: NewCoordinator(),
		updates:       make(chan struct{}, 1),
	}
}

// Updates is a coalescing change signal: one receive may cover several state
// transitions. Consumers re-read Snapshot after each receive.
func (f *Feed) Updates() <-chan struct{} { return f.updates }

// SetScope points the feed at a (backend, user) pair. A previously visited
// scope is seeded from the cache immediately and refreshed silently in the
// background; an unknown scope shows loading indicators.
func (f *Feed) SetScope(base, userID string) {
	key := cache.Key(base, userID)

	f.mu.Lock()
	// Cancel in-flight loads inside the critical section that swaps the key:
	// publishes also happen under this lock, so a late result from the old
	// scope can never reach the new scope's visible state.
	f.requestsCoord.Cancel()
	f.bookingsCoord.Cancel()
	f.base, f.userID, f.key = base, userID, key
	entry, cached := f.store.Get(key)
	if cached {
		f.requests = entry.Requests
		f.bookings = entry.Bookings
		f.requestStats = stats.ForRequests(entry.Requests)
		f.bookingStats = stats.ForBookings(entry.Bookings, time.Now())
		f.lastUpdated = entry.LastUpdated
	} else {
		f.requests = nil
		f.bookings = nil
		f.requestStats = models.RequestStats{}
		f.bookingStats = models.BookingStats{}
		f.lastUpdated = time.Time{}
	}
	f.mu.Unlock()
	f.notify()

	silent := cached
	f.load(ResourceRequests, silent)
	f.load(ResourceBookings, silent)
}

// Refresh re-issues non-silent loads for both resources unconditionally.
func (f *Feed) Refresh() {
	f.load(ResourceRequests, false)
	f.load(ResourceBookings, false)
}

// Close cancels any in-flight loads; no fetch outlives the feed.
func (f *Feed) Close() {
	f.cancel()
	f.requestsCoord.Cancel()
	f.bookingsCoord.Cancel()
}

// Snapshot returns the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Requests:        f.requests,
		Bookings:        f.bookings,
		RequestStats:    f.requestStats,
		BookingStats:    f.bookingStats,
		LastUpdated:     f.lastUpdated,
		RequestsLoading: f.requestsCoord.Loading(),
		BookingsLoading: f.bookingsCoord.Loading(),
		RequestsError:   f.requestsCoord.Err(),
		BookingsError:   f.bookingsCoord.Err(),
	}
}

func (f *Feed) coordinator(res Resource) *Coordinator {
	if res == ResourceBookings {
		return f.bookingsCoord
	}
	return f.requestsCoord
}

// load runs one coordinated fetch for res. An empty user id is a
// precondition, not an error: the whole load no-ops.
func (f *Feed) load(res Resource, silent bool) {
	f.mu.Lock()
	userID := f.userID
	key := f.key
	if strings.TrimSpace(userID) == "" {
		f.mu.Unlock()
		return
	}
	coord := f.coordinator(res)
	tok := coord.Begin(f.ctx, silent)
	f.mu.Unlock()
	f.notify()

	go func() {
		var (
			requests []models.ServiceRequest
			bookings []models.Booking
			err      error
		)
		switch res {
		case ResourceBookings:
			bookings, err = f.fetcher.FetchBookings(tok.Context(), userID)
		default:
			requests, err = f.fetcher.FetchRequests(tok.Context(), userID)
		}

		failure := ""
		if err != nil && tok.Context().Err() == nil {
			failure = failureMessage(res)
		}

		// The generation check and the publish must be atomic with respect
		// to newer loads, so both happen under the feed lock.
		f.mu.Lock()
		published := coord.Finish(tok, silent, failure)
		if !published || err != nil {
			f.mu.Unlock()
			f.notify()
			return
		}

		now := time.Now()
		switch res {
		case ResourceBookings:
			f.bookings = bookings
			f.bookingStats = stats.ForBookings(bookings, now)
			f.store.Merge(key, cache.Update{Bookings: bookings, LastUpdated: &now})
		default:
			f.requests = requests
			f.requestStats = stats.ForRequests(requests)
			f.store.Merge(key, cache.Update{Requests: requests, LastUpdated: &now})
		}
		f.lastUpdated = now
		f.mu.Unlock()
		f.notify()
	}()
}

func failureMessage(res Resource) string {
	if res == ResourceBookings {
		return BookingsErrMsg
	}
	return RequestsErrMsg
}

func (f *Feed) notify() {
	select {
	case f.updates <- struct{}{}:
	default:
	}
}
