package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/probook/prodash/internal/feed"
	"github.com/probook/prodash/pkg/models"
)

// NewShowCommand creates the non-interactive show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [requests|bookings|clients]",
		Short: "Print dashboard data without the TUI",
		Long: `Print dashboard data in a non-interactive format, for scripting or a
quick look. Without arguments: prints the overview. With a section name:
prints that section only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	scope, err := scopeFromFlags()
	if err != nil {
		return err
	}

	f := newFeed(scope)
	defer f.Close()

	s, err := awaitFirstLoad(f, 30*time.Second)
	if err != nil {
		return err
	}
	if msg := s.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	section := "overview"
	if len(args) == 1 {
		section = args[0]
	}

	switch section {
	case "overview":
		showOverview(s)
	case "requests":
		showRequests(s)
	case "bookings":
		showBookings(s)
	case "clients":
		showClients(s)
	default:
		return fmt.Errorf("unknown section %q, expected requests, bookings or clients", section)
	}
	return nil
}

var (
	heading = color.New(color.FgYellow, color.Bold).SprintFunc()
	accent  = color.New(color.FgCyan).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	dimmed  = color.New(color.Faint).SprintFunc()
)

func showOverview(s feed.Snapshot) {
	fmt.Println(heading("Service Requests"))
	fmt.Printf("  Total: %d  Open: %s  Closed: %d  Responses: %d\n",
		s.RequestStats.Total, good(s.RequestStats.Open), s.RequestStats.Closed, s.RequestStats.Responses)

	fmt.Println(heading("Bookings"))
	fmt.Printf("  Total: %d  Confirmed: %s  Pending: %s  Cancelled: %s\n",
		s.BookingStats.Total, good(s.BookingStats.Confirmed),
		warn(s.BookingStats.Pending), bad(s.BookingStats.Cancelled))
	fmt.Printf("  Upcoming: %d (%d within a week)\n", s.BookingStats.Upcoming, s.BookingStats.UpcomingWeek)
	if !s.BookingStats.NextBookingTime.IsZero() {
		fmt.Printf("  Next booking: %s\n", accent(s.BookingStats.NextBookingTime.Format("2006-01-02 15:04")))
	}

	fmt.Println(heading("Clients"))
	fmt.Printf("  Unique: %d  Repeat: %d\n", s.BookingStats.UniqueClients, s.BookingStats.RepeatClients)
	if len(s.BookingStats.RecentClients) > 0 {
		fmt.Printf("  Recent: %s\n", strings.Join(s.BookingStats.RecentClients, ", "))
	}
	if !s.LastUpdated.IsZero() {
		fmt.Println(dimmed("updated " + s.LastUpdated.Format("2006-01-02 15:04")))
	}
}

func showRequests(s feed.Snapshot) {
	if len(s.Requests) == 0 {
		fmt.Println("No service requests")
		return
	}
	fmt.Println(heading(fmt.Sprintf("Service Requests (%d)", len(s.Requests))))
	for i, r := range s.Requests {
		status := dimmed(r.Status)
		if r.Status == models.RequestStatusOpen {
			status = good(r.Status)
		}
		title := r.Title
		if title == "" {
			title = string(r.ID)
		}
		fmt.Printf("%3d. %-40s %s (%d responses)\n", i+1, title, status, r.ResponsesCount)
	}
}

func showBookings(s feed.Snapshot) {
	if len(s.Bookings) == 0 {
		fmt.Println("No bookings")
		return
	}
	fmt.Println(heading(fmt.Sprintf("Bookings (%d)", len(s.Bookings))))
	for i, b := range s.Bookings {
		var status string
		switch b.Status {
		case models.BookingStatusConfirmed:
			status = good(b.Status)
		case models.BookingStatusDeclined, models.BookingStatusCancelled:
			status = bad(b.Status)
		default:
			status = warn(b.Status)
		}
		when := strings.TrimSpace(b.ScheduledAt)
		if when == "" {
			when = "unscheduled"
		}
		client := strings.TrimSpace(b.ClientName)
		if client == "" {
			client = "-"
		}
		fmt.Printf("%3d. %-14s %-20s %s\n", i+1, status, when, client)
	}
}

func showClients(s feed.Snapshot) {
	summaries := s.BookingStats.ClientSummaries
	if len(summaries) == 0 {
		fmt.Println("No clients")
		return
	}
	fmt.Println(heading(fmt.Sprintf("Clients (%d unique, %d repeat)", s.BookingStats.UniqueClients, s.BookingStats.RepeatClients)))
	for i, c := range summaries {
		name := c.Name
		if i < 3 {
			name = accent(name)
		}
		lastSeen := "never"
		if !c.LastSeen.IsZero() {
			lastSeen = c.LastSeen.Format("2006-01-02")
		}
		fmt.Printf("%3d. %-24s %2d bookings, last seen %s\n", i+1, name, c.Count, lastSeen)
	}
}
