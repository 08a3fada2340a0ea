package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, h *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub(nil)
	conn, cleanup := dialHub(t, h)
	defer cleanup()

	waitForClients(t, h, 1)

	h.NotifyOpportunity(&models.MarketOpportunity{
		ID:        "opp-1",
		Type:      models.OpportunityDirect,
		Direction: models.DirectionLong,
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var frame struct {
		Type string                   `json:"type"`
		Data models.MarketOpportunity `json:"data"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if frame.Type != "opportunity" || frame.Data.ID != "opp-1" {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub(nil)
	conn, cleanup := dialHub(t, h)
	defer cleanup()

	waitForClients(t, h, 1)

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.ClientCount() != 0 {
		t.Fatalf("clients remain after close")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
