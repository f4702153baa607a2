package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/probook/prodash/internal/feed"
)

// Message types for the dashboard update loop.
type (
	// FeedUpdatedMsg says the data feed changed; the model re-reads its
	// snapshot.
	FeedUpdatedMsg struct{}

	// TickMsg drives the spinner animation while a load is visible.
	TickMsg time.Time
)

// waitForUpdateCmd blocks on the feed's coalescing update channel and turns
// each signal into a message. The command is re-issued after every
// FeedUpdatedMsg so the subscription stays alive.
func waitForUpdateCmd(f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		<-f.Updates()
		return FeedUpdatedMsg{}
	}
}

// tickCmd creates a ticker for spinner animation.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
