package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/flying-chess/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func runHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func testState() *engine.GameState {
	return &engine.GameState{
		Phase: engine.PhasePlaying,
		Players: []engine.Player{
			{ID: 1, Name: "玩家 1", Color: engine.PlayerColors[0], Position: 7},
			{ID: 2, Name: "玩家 2", Color: engine.PlayerColors[1], Position: 3},
		},
		CurrentPlayerIndex: 1,
		Rolls:              4,
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "Test-Session")

	hub.registerClient(client)

	require.Contains(t, hub.sessions, "test-session")
	assert.True(t, hub.sessions["test-session"][client])
	assert.Equal(t, 1, hub.ClientCount("TEST-session"))
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.NotContains(t, hub.sessions, "test-session", "session should be cleaned up after last client")

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed")

	// Unregistering twice is harmless
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "multi")
	client2 := newTestClient(hub, "multi")

	hub.registerClient(client1)
	hub.registerClient(client2)
	assert.Equal(t, 2, hub.ClientCount("multi"))

	hub.unregisterClient(client1)
	assert.Equal(t, 1, hub.ClientCount("multi"))
	assert.True(t, hub.sessions["multi"][client2])
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := runHub(t)
	client := newTestClient(hub, "broadcast-test")
	other := newTestClient(hub, "other")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.BroadcastToSession("BROADCAST-test", testState())

	select {
	case data := <-client.send:
		var message Message
		require.NoError(t, json.Unmarshal(data, &message))

		assert.Equal(t, "BROADCAST-test", message.SessionID)
		assert.Equal(t, EventStateUpdate, message.Event)
		require.NotNil(t, message.GameState)
		assert.Equal(t, engine.PhasePlaying, message.GameState.Phase)
		assert.Equal(t, 7, message.GameState.Players[0].Position)
		assert.Equal(t, 1, message.GameState.CurrentPlayerIndex)

	case <-time.After(time.Second):
		t.Fatal("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Clients of other sessions should not receive the update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := runHub(t)
	client := newTestClient(hub, "event-test")
	hub.registerClient(client)

	event := &engine.Event{PlayerID: 1, Player: "玩家 1", Dice: 4, Kind: engine.EventReward, From: 0, To: 6}
	hub.BroadcastEvent("event-test", EventRoll, event)

	select {
	case data := <-client.send:
		var message struct {
			Event string       `json:"event"`
			Data  engine.Event `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &message))
		assert.Equal(t, EventRoll, message.Event)
		assert.Equal(t, *event, message.Data)

	case <-time.After(time.Second):
		t.Fatal("No event received within timeout")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventStateUpdate})

	assert.Equal(t, 0, hub.ClientCount("slow"))
}

func TestHubStopsPublishingAfterRun(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newTestClient(hub, "closing")
	hub.register <- client
	cancel()
	<-stopped

	assert.Equal(t, 0, hub.ClientCount("closing"))

	// Fill the queue; publishing must not block once the hub has stopped
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+1; i++ {
			hub.BroadcastToSession("closing", testState())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastToSession blocked after the hub stopped")
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := runHub(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return hub.ClientCount("ws-test") == 1 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastToSession("ws-test", testState())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var message Message
	require.NoError(t, json.Unmarshal(data, &message))
	assert.Equal(t, "ws-test", message.SessionID)
	require.NotNil(t, message.GameState)
	assert.Equal(t, 4, message.GameState.Rolls)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount("ws-test") == 0 },
		time.Second, 10*time.Millisecond, "session should be cleaned up after close")
}
