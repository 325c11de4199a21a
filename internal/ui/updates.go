package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/staking"
)

// UpdateSender provides non-blocking UI update sending with statistics
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
	closeOnce      sync.Once
}

func NewUpdateSender(msgChan chan tea.Msg, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       msgChan,
		logger:        logger.Named("ui_updates"),
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}
	go us.logStats()
	return us
}

// SendUpdate sends a message to UI without blocking. A full channel drops the message.
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

func (us *UpdateSender) Updates() <-chan tea.Msg {
	return us.msgChan
}

func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped),
					zap.Float64("drop_rate", float64(dropped)/float64(sent+dropped)*100))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the statistics loop. It is safe to call more than once.
func (us *UpdateSender) Close() {
	us.closeOnce.Do(func() { close(us.stopStats) })
}

// Bridge turns bus events into tea messages.
type Bridge struct {
	sender *UpdateSender
	sub    events.Subscription
}

func NewBridge(sender *UpdateSender) *Bridge {
	return &Bridge{sender: sender}
}

// Attach subscribes the bridge to every event the dashboard renders.
func (b *Bridge) Attach(s events.Subscriber) {
	b.sub = events.SubscribeAll(s, b,
		events.PresaleSnapshot,
		events.StakingSnapshot,
		events.PriceUpdated,
		events.ActionSucceeded,
		events.ActionFailed,
	)
}

func (b *Bridge) Detach() {
	if b.sub != nil {
		b.sub.Unsubscribe()
		b.sub = nil
	}
}

// Handle implements events.Handler.
func (b *Bridge) Handle(_ context.Context, e events.Event) error {
	if msg := ToMsg(e); msg != nil {
		b.sender.SendUpdate(msg)
	}
	return nil
}

// ToMsg maps an event onto its tea message, or nil for events the UI ignores.
func ToMsg(e events.Event) tea.Msg {
	switch ev := e.(type) {
	case events.SnapshotEvent:
		switch p := ev.Payload.(type) {
		case presale.Snapshot:
			return PresaleMsg{Snapshot: p}
		case staking.Position:
			return StakingMsg{Position: p}
		}
	case events.PriceUpdatedEvent:
		return PriceMsg{Source: ev.Source, Price: ev.Price, Stale: ev.Stale}
	case events.ActionEvent:
		return NotificationMsg{Text: ev.Message(), Failed: ev.Err != nil, At: ev.Timestamp()}
	}
	return nil
}
