package service

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"trend_bot/internal/models"
)

func TestPublishSanitizesNaN(t *testing.T) {
	s := NewState()
	var got models.Status
	s.Subscribe(func(st models.Status) { got = st })

	now := time.Unix(1714546800, 0)
	s.Publish(models.Status{Time: now, FIGI: "BBG004730N88", FastEMA: math.NaN(), SlowEMA: 250, RSI: math.NaN()})

	if got.FIGI != "BBG004730N88" || got.FastEMA != 0 || got.RSI != 0 || got.SlowEMA != 250 {
		t.Fatalf("subscriber got %+v", got)
	}
	if s.Status().FIGI != "BBG004730N88" {
		t.Fatalf("snapshot not stored")
	}
	if !s.LastTick().Equal(now) {
		t.Fatalf("last tick: %v", s.LastTick())
	}
	if _, err := sonic.Marshal(s.Status()); err != nil {
		t.Fatalf("status must marshal: %v", err)
	}
}

func TestHubBroadcastsStatus(t *testing.T) {
	s := NewState()
	hub := NewHub(s)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.Publish(models.Status{Time: time.Now(), FIGI: "BBG004730N88", Side: models.SideBuy, Price: 250.5})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var st models.Status
	if err := sonic.Unmarshal(msg, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Side != models.SideBuy || st.Price != 250.5 {
		t.Fatalf("broadcast: %+v", st)
	}
}
