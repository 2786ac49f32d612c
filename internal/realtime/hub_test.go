package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/service"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRoom(t *testing.T, hub *Hub, initial []byte) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, r.URL.Query().Get("room"), initial); err != nil {
			t.Logf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, hub *Hub, roomID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Subscribers(roomID) == n }, 2*time.Second, 10*time.Millisecond)
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestHub_PublishReachesOnlyThatRoom(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"})
	url := serveRoom(t, hub, nil)

	a := dial(t, url+"?room=A")
	b := dial(t, url+"?room=B")
	waitSubscribers(t, hub, "A", 1)
	waitSubscribers(t, hub, "B", 1)

	hub.Publish("A", []byte("for-a"))
	hub.Publish("B", []byte("for-b"))

	assert.Equal(t, "for-a", readText(t, a))
	assert.Equal(t, "for-b", readText(t, b))
}

func TestHub_InitialMessageFirst(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"})
	url := serveRoom(t, hub, []byte("hello"))

	conn := dial(t, url+"?room=A")
	waitSubscribers(t, hub, "A", 1)
	hub.Publish("A", []byte("update"))

	assert.Equal(t, "hello", readText(t, conn))
	assert.Equal(t, "update", readText(t, conn))
}

func TestHub_UnsubscribesOnClose(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"})
	url := serveRoom(t, hub, nil)

	conn := dial(t, url+"?room=A")
	waitSubscribers(t, hub, "A", 1)
	conn.Close()
	waitSubscribers(t, hub, "A", 0)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://play.example"})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://play.example")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}

type fakeViews struct {
	view *service.MatchView
	err  error
}

func (f fakeViews) GetView(ctx context.Context, roomID string) (*service.MatchView, error) {
	return f.view, f.err
}

func TestNotifier_PublishesView(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"})
	url := serveRoom(t, hub, nil)
	views := fakeViews{view: &service.MatchView{
		Room:  &game.Room{ID: "A"},
		Match: &game.MatchState{RoomID: "A", GamePhase: game.PhaseCombat, RoundNum: 2},
	}}
	n := NewNotifier(hub, views)

	conn := dial(t, url+"?room=A")
	waitSubscribers(t, hub, "A", 1)
	n.MatchChanged("A")

	var got struct {
		Type    string `json:"type"`
		Payload struct {
			Match struct {
				GamePhase string `json:"game_phase"`
				RoundNum  int    `json:"round_num"`
			} `json:"match"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(readText(t, conn)), &got))
	assert.Equal(t, MessageTypeMatch, got.Type)
	assert.Equal(t, "combat", got.Payload.Match.GamePhase)
	assert.Equal(t, 2, got.Payload.Match.RoundNum)
}

func TestNotifier_LoadErrorPublishesNothing(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"})
	n := NewNotifier(hub, fakeViews{err: errors.New("boom")})
	_, err := n.Snapshot("A")
	assert.Error(t, err)
	// No sessions: nothing to load, nothing to panic on.
	n.MatchChanged("A")
}
