// Package feed ingests closed candles from the broker's websocket stream
// and hands them to the trading loop. Candle construction happens broker
// side; only closed bars are forwarded to the engine's buffer.
package feed

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"binary-options-bot/internal/market"
)

// Config holds the candle stream configuration
type Config struct {
	URL       string `json:"url"`
	Asset     string `json:"asset"`
	Interval  string `json:"interval"`
	Enabled   bool   `json:"enabled"`
	Reconnect bool   `json:"reconnect"`
}

// candleMessage is the wire form of a candle update
type candleMessage struct {
	Asset     string  `json:"asset"`
	Interval  string  `json:"interval"`
	OpenTime  int64   `json:"openTime"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	CloseTime int64   `json:"closeTime"`
	Closed    bool    `json:"closed"`
}

// subscribeMessage is sent after connecting
type subscribeMessage struct {
	Op       string `json:"op"`
	Asset    string `json:"asset"`
	Interval string `json:"interval"`
}

// CandleHandler receives each closed candle in arrival order
type CandleHandler func(market.Candle)

// Stream maintains the websocket connection to the candle source
type Stream struct {
	mu        sync.Mutex
	cfg       Config
	conn      *websocket.Conn
	handler   CandleHandler
	logger    zerolog.Logger
	stopChan  chan struct{}
	isRunning bool
}

// NewStream creates a candle stream client
func NewStream(cfg Config, handler CandleHandler, logger zerolog.Logger) *Stream {
	return &Stream{
		cfg:      cfg,
		handler:  handler,
		logger:   logger.With().Str("component", "candle_feed").Str("asset", cfg.Asset).Logger(),
		stopChan: make(chan struct{}),
	}
}

// Start connects and begins the read loop. Reconnects with backoff when the
// connection drops, unless reconnect is disabled.
func (s *Stream) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("stream already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.connect(); err != nil {
		return err
	}

	go s.readLoop()
	return nil
}

// Stop closes the connection and stops the read loop
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *Stream) connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial candle stream: %w", err)
	}

	sub := subscribeMessage{Op: "subscribe", Asset: s.cfg.Asset, Interval: s.cfg.Interval}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info().Str("url", s.cfg.URL).Str("interval", s.cfg.Interval).Msg("candle stream connected")
	return nil
}

func (s *Stream) readLoop() {
	backoff := time.Second

	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()

		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn().Err(err).Msg("candle stream read failed")
			if !s.cfg.Reconnect {
				return
			}
			if !s.reconnectWithBackoff(&backoff) {
				return
			}
			continue
		}
		backoff = time.Second

		var msg candleMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug().Err(err).Msg("skipping unparseable frame")
			continue
		}

		// The in-progress candle is never forwarded
		if !msg.Closed {
			continue
		}

		s.handler(market.Candle{
			OpenTime:  msg.OpenTime,
			Open:      msg.Open,
			High:      msg.High,
			Low:       msg.Low,
			Close:     msg.Close,
			Volume:    msg.Volume,
			CloseTime: msg.CloseTime,
		})
	}
}

// reconnectWithBackoff retries the connection until it succeeds or the
// stream is stopped. Backoff doubles up to 30 seconds.
func (s *Stream) reconnectWithBackoff(backoff *time.Duration) bool {
	for {
		select {
		case <-s.stopChan:
			return false
		case <-time.After(*backoff):
		}

		if err := s.connect(); err == nil {
			return true
		}

		*backoff *= 2
		if *backoff > 30*time.Second {
			*backoff = 30 * time.Second
		}
		s.logger.Warn().Dur("backoff", *backoff).Msg("reconnect failed, backing off")
	}
}
