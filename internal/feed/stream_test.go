package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"binary-options-bot/internal/market"
)

func TestStreamForwardsClosedCandlesOnly(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan subscribeMessage, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var sub subscribeMessage
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("reading subscribe failed: %v", err)
			return
		}
		subscribed <- sub

		// An in-progress candle, then the closed one
		conn.WriteJSON(candleMessage{
			Asset: "EURUSD", OpenTime: 1000, Open: 1.10, High: 1.12, Low: 1.09,
			Close: 1.11, Volume: 500, CloseTime: 1999, Closed: false,
		})
		conn.WriteJSON(candleMessage{
			Asset: "EURUSD", OpenTime: 1000, Open: 1.10, High: 1.13, Low: 1.09,
			Close: 1.12, Volume: 800, CloseTime: 1999, Closed: true,
		})

		// Hold the connection open until the client disconnects
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	received := make(chan market.Candle, 2)
	cfg := Config{
		URL:      "ws" + strings.TrimPrefix(server.URL, "http"),
		Asset:    "EURUSD",
		Interval: "1m",
	}
	stream := NewStream(cfg, func(c market.Candle) { received <- c }, zerolog.Nop())

	if err := stream.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer stream.Stop()

	select {
	case sub := <-subscribed:
		if sub.Op != "subscribe" || sub.Asset != "EURUSD" || sub.Interval != "1m" {
			t.Errorf("unexpected subscribe message: %+v", sub)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the subscribe message")
	}

	select {
	case c := <-received:
		if c.Close != 1.12 || c.Volume != 800 {
			t.Errorf("received wrong candle: %+v", c)
		}
		if c.CloseTime != 1999 {
			t.Errorf("close time = %d, want 1999", c.CloseTime)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("closed candle never reached the handler")
	}

	// The in-progress frame must not arrive
	select {
	case c := <-received:
		t.Errorf("unexpected extra candle forwarded: %+v", c)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStreamDoubleStart(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	cfg := Config{URL: "ws" + strings.TrimPrefix(server.URL, "http"), Asset: "EURUSD", Interval: "1m"}
	stream := NewStream(cfg, func(market.Candle) {}, zerolog.Nop())

	if err := stream.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	defer stream.Stop()

	if err := stream.Start(); err == nil {
		t.Error("second start must fail while the stream is running")
	}
}
