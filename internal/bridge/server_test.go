package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestServer_SendWithoutConnection(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, nil)
	require.False(t, s.SendChat("anyone home?"))
	require.False(t, s.SendAction("flee", nil))
}

func TestServer_PingProducesPongEcho(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, nil)
	conn := dialTestServer(t, s)

	require.NoError(t, conn.WriteJSON(Envelope{Type: TypePing, Timestamp: 42.5}))

	pong := readEnvelope(t, conn)
	require.Equal(t, TypePong, pong.Type)
	require.Equal(t, 42.5, pong.PingTimestamp)
}

func TestServer_GameEventDispatch(t *testing.T) {
	got := make(chan Envelope, 1)
	s := NewServer("localhost:0", time.Minute, func(env Envelope) {
		got <- env
	})
	conn := dialTestServer(t, s)

	require.NoError(t, conn.WriteJSON(NewGameEvent("mob_spawn", map[string]any{"name": "zombie"})))

	select {
	case env := <-got:
		require.Equal(t, "mob_spawn", env.EventType)
		require.Equal(t, "zombie", env.Data["name"])
	case <-time.After(2 * time.Second):
		t.Fatal("handler never invoked")
	}
}

func TestServer_HandlerPanicDoesNotKillConnection(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, func(Envelope) {
		panic("boom")
	})
	conn := dialTestServer(t, s)

	require.NoError(t, conn.WriteJSON(NewGameEvent("mob_spawn", nil)))
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypePing, Timestamp: 7}))

	pong := readEnvelope(t, conn)
	require.Equal(t, TypePong, pong.Type)
}

func TestServer_InvalidPayloadsDropped(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, nil)
	conn := dialTestServer(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "mystery"}))
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypePing, Timestamp: 1}))

	// The read loop survived both bad payloads.
	pong := readEnvelope(t, conn)
	require.Equal(t, TypePong, pong.Type)
}

func TestServer_SendChatTruncates(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, nil)
	conn := dialTestServer(t, s)
	waitConnected(t, s)

	long := strings.Repeat("a", 300)
	require.True(t, s.SendChat(long))

	env := readEnvelope(t, conn)
	require.Equal(t, TypeAction, env.Type)
	require.Equal(t, "send_chat", env.Action)
	msg, _ := env.Params["message"].(string)
	require.Len(t, msg, 250)
}

func TestServer_SendActionRoundTrip(t *testing.T) {
	s := NewServer("localhost:0", time.Minute, nil)
	conn := dialTestServer(t, s)
	waitConnected(t, s)

	require.True(t, s.SendAction("follow_player", map[string]any{"name": "Steve"}))

	env := readEnvelope(t, conn)
	require.Equal(t, "follow_player", env.Action)
	require.Equal(t, "Steve", env.Params["name"])
}

// waitConnected blocks until the dialed peer has landed in the slot; the
// upgrade completes on the server goroutine after Dial returns.
func waitConnected(t *testing.T, s *Server) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !s.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
