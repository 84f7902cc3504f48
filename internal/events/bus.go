package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventSignalGenerated EventType = "SIGNAL_GENERATED"
	EventSignalRejected  EventType = "SIGNAL_REJECTED"
	EventTradeOpened     EventType = "TRADE_OPENED"
	EventTradeSettled    EventType = "TRADE_SETTLED"
	EventRiskHalt        EventType = "RISK_HALT"
	EventSessionStarted  EventType = "SESSION_STARTED"
	EventSessionEnded    EventType = "SESSION_ENDED"
	EventCandleClosed    EventType = "CANDLE_CLOSED"
	EventError           EventType = "ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Subscribers run in their own
// goroutines so a slow consumer cannot block the trading loop.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, sub := range eb.subscribers[event.Type] {
		go sub(event)
	}
	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishSignal publishes a signal generated event
func (eb *EventBus) PublishSignal(asset, direction string, confidence, fusionScore, size float64) {
	eb.Publish(Event{
		Type: EventSignalGenerated,
		Data: map[string]interface{}{
			"asset":        asset,
			"direction":    direction,
			"confidence":   confidence,
			"fusion_score": fusionScore,
			"size":         size,
		},
	})
}

// PublishTradeOpened publishes a trade opened event
func (eb *EventBus) PublishTradeOpened(tradeID, asset, direction string, entryPrice, size float64) {
	eb.Publish(Event{
		Type: EventTradeOpened,
		Data: map[string]interface{}{
			"trade_id":    tradeID,
			"asset":       asset,
			"direction":   direction,
			"entry_price": entryPrice,
			"size":        size,
		},
	})
}

// PublishTradeSettled publishes a trade settled event
func (eb *EventBus) PublishTradeSettled(tradeID, asset string, win bool, pnl float64) {
	eb.Publish(Event{
		Type: EventTradeSettled,
		Data: map[string]interface{}{
			"trade_id": tradeID,
			"asset":    asset,
			"win":      win,
			"pnl":      pnl,
		},
	})
}

// PublishRiskHalt publishes a risk halt event
func (eb *EventBus) PublishRiskHalt(reason string) {
	eb.Publish(Event{
		Type: EventRiskHalt,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}
