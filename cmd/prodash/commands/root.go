package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/probook/prodash/internal/backend"
	"github.com/probook/prodash/internal/cache"
	"github.com/probook/prodash/internal/feed"
	"github.com/probook/prodash/internal/tui"
)

var (
	backendURL string
	userID     string
	debugMode  bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prodash",
		Short: "Dashboard for professionals on the booking marketplace",
		Long: `prodash is a TUI dashboard for a service professional: it fetches your
service requests and bookings from the marketplace backend and shows
aggregate statistics, upcoming work and client loyalty.`,
		RunE: runDashboard,
	}

	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", envOr("PRODASH_BACKEND", "http://localhost:8080"), "Marketplace backend base URL")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("PRODASH_USER"), "Professional's user id")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Print the dashboard data without the TUI")
	rootCmd.AddCommand(NewShowCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func scopeFromFlags() (backend.Scope, error) {
	scope := backend.Scope{BaseURL: backendURL, UserID: userID}
	if err := scope.Validate(); err != nil {
		return backend.Scope{}, err
	}
	return scope, nil
}

// newFeed wires the store, the HTTP client and the feed for the flag scope.
func newFeed(scope backend.Scope) *feed.Feed {
	f := feed.New(cache.NewStore(), backend.NewClient(scope.BaseURL))
	f.SetScope(scope.BaseURL, scope.UserID)
	return f
}

// awaitFirstLoad blocks until both resources settle (or time out); the TUI
// path does not need this, but the non-interactive paths do.
func awaitFirstLoad(f *feed.Feed, timeout time.Duration) (feed.Snapshot, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		s := f.Snapshot()
		if !s.Loading() {
			return s, nil
		}
		select {
		case <-f.Updates():
		case <-deadline.C:
			return f.Snapshot(), fmt.Errorf("timed out waiting for the backend after %s", timeout)
		}
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	scope, err := scopeFromFlags()
	if err != nil {
		return err
	}

	f := newFeed(scope)
	defer f.Close()

	if debugMode {
		return runDebugMode(f)
	}

	if err := tui.Show(f); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runDebugMode(f *feed.Feed) error {
	s, err := awaitFirstLoad(f, 30*time.Second)
	if err != nil {
		return err
	}
	if msg := s.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	fmt.Println("=== Debug Mode: Dashboard Data ===")
	fmt.Printf("Requests: %d (%d open, %d closed, %d responses)\n",
		s.RequestStats.Total, s.RequestStats.Open, s.RequestStats.Closed, s.RequestStats.Responses)
	fmt.Printf("Bookings: %d (%d confirmed, %d pending, %d cancelled)\n",
		s.BookingStats.Total, s.BookingStats.Confirmed, s.BookingStats.Pending, s.BookingStats.Cancelled)
	fmt.Printf("Upcoming: %d (%d within a week)\n", s.BookingStats.Upcoming, s.BookingStats.UpcomingWeek)
	fmt.Printf("Clients: %d unique, %d repeat\n", s.BookingStats.UniqueClients, s.BookingStats.RepeatClients)
	if !s.LastUpdated.IsZero() {
		fmt.Printf("Last updated: %s\n", s.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}
