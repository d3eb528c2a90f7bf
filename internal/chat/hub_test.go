package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newHubServer(t *testing.T, hub *Hub, teamID string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		userID := r.URL.Query().Get("user")
		hub.Join(teamID, userID, userID, conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForRoomSize(t *testing.T, hub *Hub, teamID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.RoomSize(teamID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d clients, have %d", teamID, want, hub.RoomSize(teamID))
}

func TestHubBroadcastsWithinRoom(t *testing.T) {
	hub := NewHub(nil)
	srv := newHubServer(t, hub, "team-1")

	alice := dialHub(t, srv, "alice")
	bob := dialHub(t, srv, "bob")
	waitForRoomSize(t, hub, "team-1", 2)

	if err := alice.WriteJSON(map[string]string{"text": "hello"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := bob.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("broadcast not valid JSON: %v", err)
	}
	if msg.TeamID != "team-1" || msg.UserID != "alice" || msg.Text != "hello" {
		t.Fatalf("unexpected broadcast: %+v", msg)
	}
	if msg.SentAt.IsZero() {
		t.Fatalf("expected a send timestamp")
	}
}

func TestHubDropsEmptyMessages(t *testing.T) {
	hub := NewHub(nil)
	srv := newHubServer(t, hub, "team-1")

	alice := dialHub(t, srv, "alice")
	bob := dialHub(t, srv, "bob")
	waitForRoomSize(t, hub, "team-1", 2)

	if err := alice.WriteJSON(map[string]string{"text": ""}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := alice.WriteJSON(map[string]string{"text": "after"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := bob.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("broadcast not valid JSON: %v", err)
	}
	if msg.Text != "after" {
		t.Fatalf("empty message should have been skipped, got %q", msg.Text)
	}
}

func TestHubRemovesClientsOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := newHubServer(t, hub, "team-1")

	alice := dialHub(t, srv, "alice")
	bob := dialHub(t, srv, "bob")
	waitForRoomSize(t, hub, "team-1", 2)

	alice.Close()
	waitForRoomSize(t, hub, "team-1", 1)

	bob.Close()
	waitForRoomSize(t, hub, "team-1", 0)
}
