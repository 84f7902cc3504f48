package notification

import (
	"testing"
	"time"

	"binary-options-bot/internal/fusion"
)

type captureNotifier struct {
	enabled bool
	sent    []*Notification
}

func (c *captureNotifier) Name() string    { return "capture" }
func (c *captureNotifier) IsEnabled() bool { return c.enabled }
func (c *captureNotifier) Send(n *Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func TestManagerSendsToEnabledNotifiers(t *testing.T) {
	on := &captureNotifier{enabled: true}
	off := &captureNotifier{enabled: false}
	m := NewManager(on, off)

	sig := &fusion.FusionSignal{
		Direction:  fusion.DirectionBuy,
		Confidence: 0.82,
		Tier:       fusion.TierStrong,
		Timestamp:  time.Now(),
	}
	if err := m.SendSignal("EURUSD", sig); err != nil {
		t.Fatal(err)
	}

	if len(on.sent) != 1 {
		t.Fatalf("enabled notifier received %d notifications, want 1", len(on.sent))
	}
	if len(off.sent) != 0 {
		t.Error("disabled notifier must not receive notifications")
	}

	n := on.sent[0]
	if n.Asset != "EURUSD" || n.Direction != "BUY" {
		t.Errorf("notification content wrong: %+v", n)
	}
}

func TestManagerSettlementAndHalt(t *testing.T) {
	capture := &captureNotifier{enabled: true}
	m := NewManager(capture)

	if err := m.SendSettlement("EURUSD", false, -20); err != nil {
		t.Fatal(err)
	}
	if err := m.SendHalt("daily loss limit reached"); err != nil {
		t.Fatal(err)
	}

	if len(capture.sent) != 2 {
		t.Fatalf("received %d notifications, want 2", len(capture.sent))
	}
	if capture.sent[0].PnL != -20 {
		t.Errorf("settlement pnl = %v, want -20", capture.sent[0].PnL)
	}
	if capture.sent[1].Type != NotifyHalt {
		t.Errorf("second notification type = %v, want halt", capture.sent[1].Type)
	}
}
