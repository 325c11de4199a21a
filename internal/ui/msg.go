package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/staking"
)

// Tea message types for UI communication

type PresaleMsg struct {
	Snapshot presale.Snapshot
}

type StakingMsg struct {
	Position staking.Position
}

type PriceMsg struct {
	Source string
	Price  float64
	Stale  bool
}

// NotificationMsg is the outcome of a write action, shown under the panels.
type NotificationMsg struct {
	Text   string
	Failed bool
	At     time.Time
}

type tickMsg time.Time

type updatesClosedMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForUpdate blocks on the update channel and delivers one message.
func waitForUpdate(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return msg
	}
}
