// Package tui renders the professional's dashboard. It is pure presentation:
// all data comes from feed snapshots and the only operations it triggers are
// documented feed calls (Refresh, Close).
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/probook/prodash/internal/feed"
	"github.com/probook/prodash/pkg/models"
)

type screen int

const (
	overviewScreen screen = iota
	bookingsScreen
	clientsScreen
)

const timeFormat = "2006-01-02 15:04"

type model struct {
	feed *feed.Feed
	snap feed.Snapshot

	currentScreen screen
	cursor        int
	viewport      viewport.Model
	spinner       *Spinner
	ready         bool
	width         int
	height        int
}

func initialModel(f *feed.Feed) model {
	return model{
		feed:          f,
		snap:          f.Snapshot(),
		currentScreen: overviewScreen,
		spinner:       NewSpinner(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, waitForUpdateCmd(m.feed), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.updateViewport()

	case FeedUpdatedMsg:
		m.snap = m.feed.Snapshot()
		m.clampCursor()
		m.updateViewport()
		cmds = append(cmds, waitForUpdateCmd(m.feed))

	case TickMsg:
		if m.snap.Loading() {
			m.spinner.Next()
		}
		cmds = append(cmds, tickCmd())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.feed.Close()
			return m, tea.Quit

		case "r":
			m.feed.Refresh()
			m.snap = m.feed.Snapshot()
			m.updateViewport()

		case "tab":
			m.currentScreen = (m.currentScreen + 1) % 3
			m.cursor = 0
			m.updateViewport()

		case "1":
			m.currentScreen = overviewScreen
			m.updateViewport()

		case "2":
			m.currentScreen = bookingsScreen
			m.cursor = 0
			m.updateViewport()

		case "3":
			m.currentScreen = clientsScreen
			m.cursor = 0
			m.updateViewport()

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.updateViewport()
			}

		case "down", "j":
			if m.cursor < m.listLen()-1 {
				m.cursor++
				m.updateViewport()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) listLen() int {
	switch m.currentScreen {
	case bookingsScreen:
		return len(m.snap.Bookings)
	case clientsScreen:
		return len(m.snap.BookingStats.ClientSummaries)
	default:
		return 0
	}
}

func (m *model) clampCursor() {
	if max := m.listLen() - 1; m.cursor > max {
		if max < 0 {
			max = 0
		}
		m.cursor = max
	}
}

func (m *model) updateViewport() {
	if !m.ready {
		return
	}
	var content string
	switch m.currentScreen {
	case bookingsScreen:
		content = m.renderBookings()
	case clientsScreen:
		content = m.renderClients()
	default:
		content = m.renderOverview()
	}
	m.viewport.SetContent(content)
}

func (m model) renderOverview() string {
	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)

	row := func(label string, value string) {
		s.WriteString(fmt.Sprintf("  %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", label)),
			valueStyle.Render(value)))
	}

	rs := m.snap.RequestStats
	s.WriteString(headerStyle.Render("Service Requests") + "\n")
	row("Total", fmt.Sprintf("%d", rs.Total))
	row("Open", fmt.Sprintf("%d", rs.Open))
	row("Closed", fmt.Sprintf("%d", rs.Closed))
	row("Responses", fmt.Sprintf("%d", rs.Responses))
	s.WriteString("\n")

	bs := m.snap.BookingStats
	s.WriteString(headerStyle.Render("Bookings") + "\n")
	row("Total", fmt.Sprintf("%d", bs.Total))
	row("Confirmed", fmt.Sprintf("%d", bs.Confirmed))
	row("Pending", fmt.Sprintf("%d", bs.Pending))
	row("Cancelled", fmt.Sprintf("%d", bs.Cancelled))
	row("Upcoming", fmt.Sprintf("%d", bs.Upcoming))
	row("Next 7 days", fmt.Sprintf("%d", bs.UpcomingWeek))
	row("Next booking", formatInstant(bs.NextBookingTime))
	row("Last created", formatInstant(bs.LastCreatedTime))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Clients") + "\n")
	row("Unique", fmt.Sprintf("%d", bs.UniqueClients))
	row("Repeat", fmt.Sprintf("%d", bs.RepeatClients))
	if len(bs.RecentClients) > 0 {
		row("Recent", strings.Join(bs.RecentClients, ", "))
	}

	return s.String()
}

func (m model) renderBookings() string {
	if len(m.snap.Bookings) == 0 {
		return emptyNotice("No bookings yet")
	}

	var s strings.Builder
	for i, b := range m.snap.Bookings {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		if i == m.cursor {
			style = style.Foreground(lipgloss.Color("212")).Bold(true)
		}

		client := strings.TrimSpace(b.ClientName)
		if client == "" {
			client = "-"
		}
		line := fmt.Sprintf("%s%-15s %-16s %s",
			cursor,
			statusBadge(b.Status),
			formatWire(b.ScheduledAt),
			client)
		s.WriteString(style.Render(line) + "\n")
	}
	return s.String()
}

func (m model) renderClients() string {
	summaries := m.snap.BookingStats.ClientSummaries
	if len(summaries) == 0 {
		return emptyNotice("No clients yet")
	}

	var s strings.Builder
	for i, c := range summaries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		if i == m.cursor {
			style = style.Foreground(lipgloss.Color("212")).Bold(true)
		}

		visits := "visit"
		if c.Count != 1 {
			visits = "visits"
		}
		line := fmt.Sprintf("%s%2d. %-20s %d %s, last seen %s",
			cursor, i+1, c.Name, c.Count, visits, formatInstant(c.LastSeen))
		s.WriteString(style.Render(line) + "\n")
	}
	return s.String()
}

func statusBadge(status string) string {
	switch status {
	case models.BookingStatusConfirmed:
		return "confirmed"
	case models.BookingStatusPending:
		return "pending"
	case models.BookingStatusPricePending, models.BookingStatusPriceProposed:
		return "price talk"
	case models.BookingStatusDeclined:
		return "declined"
	case models.BookingStatusCancelled:
		return "cancelled"
	default:
		return status
	}
}

func emptyNotice(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		Render(text)
}

// formatInstant renders a parsed instant; zero means none was derivable.
func formatInstant(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeFormat)
}

// formatWire renders a raw wire timestamp without re-parsing it; malformed
// values show as-is, matching what the backend sent.
func formatWire(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	body := m.viewport.View()

	if banner := errorBanner(m.snap.Err(), m.width); banner != "" {
		return fmt.Sprintf("%s\n%s\n%s\n%s", header, banner, body, footer)
	}
	return fmt.Sprintf("%s\n%s\n%s", header, body, footer)
}

func (m model) renderHeader() string {
	titles := map[screen]string{
		overviewScreen: "Overview",
		bookingsScreen: "Bookings",
		clientsScreen:  "Clients",
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63"))
	title := style.Render(fmt.Sprintf("prodash: %s", titles[m.currentScreen]))

	if m.snap.Loading() {
		return title + " " + statusLine(m.spinner, "refreshing…")
	}
	if !m.snap.LastUpdated.IsZero() {
		updated := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("updated " + m.snap.LastUpdated.Format(timeFormat))
		return title + " " + updated
	}
	return title
}

func (m model) renderFooter() string {
	info := "1/2/3: screens • tab: next • ↑/↓: navigate • r: refresh • q: quit"
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(info)
}

// Show runs the dashboard until the user quits.
func Show(f *feed.Feed) error {
	p := tea.NewProgram(
		initialModel(f),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
