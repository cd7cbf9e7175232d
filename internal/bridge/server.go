package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const (
	writeWait = 10 * time.Second

	// Minecraft chat caps at 256 chars; trim below it to be safe.
	maxChatLen = 250
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// EventHandler receives every inbound game_event envelope. It runs on its
// own goroutine so a slow handler never stalls the read loop; panics are
// caught and logged by the server.
type EventHandler func(env Envelope)

// Server owns the single bot connection. A second peer silently evicts the
// first (last writer wins); there is no reconnect buffering — sends while
// disconnected fail fast with false.
type Server struct {
	onGameEvent  EventHandler
	pingInterval time.Duration

	mu   sync.Mutex // guards conn slot
	conn *websocket.Conn

	sendMu sync.Mutex // one writer on the wire at a time

	httpServer *http.Server
}

func NewServer(addr string, pingInterval time.Duration, onGameEvent EventHandler) *Server {
	s := &Server{
		onGameEvent:  onGameEvent,
		pingInterval: pingInterval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}
	return s
}

// Handler exposes the HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	log.Printf("Bridge server listening on ws://%s/ws", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// Connected reports whether a bot connection is currently live.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// SendAction sends an action envelope to the bot. Returns false if there is
// no live connection or the write fails.
func (s *Server) SendAction(action string, params map[string]any) bool {
	return s.send(NewAction(action, params))
}

// SendChat asks the bot to say text in game chat, truncated to the chat
// message limit.
func (s *Server) SendChat(text string) bool {
	return s.SendAction("send_chat", map[string]any{"message": truncate(text, maxChatLen)})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ── Connection handling ─────────────────────────────────────────────────

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	log.Printf("Bot connected from %s", conn.RemoteAddr())

	s.mu.Lock()
	prev := s.conn
	s.conn = conn
	s.mu.Unlock()
	if prev != nil {
		// Last writer wins: evict the previous peer.
		log.Printf("Replacing existing bot connection")
		_ = prev.Close()
	}

	stopPing := make(chan struct{})
	go s.heartbeat(conn, stopPing)

	s.readLoop(conn)

	close(stopPing)
	s.clearConn(conn)
	log.Printf("Bot connection cleaned up")
}

func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Bot disconnected: %v", err)
			return
		}
		s.dispatch(raw)
	}
}

func (s *Server) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("Received non-JSON message: %.100s", raw)
		return
	}
	if !env.Valid() {
		log.Printf("Invalid message type %q, dropping", env.Type)
		return
	}

	switch env.Type {
	case TypePing:
		s.send(NewPong(env.Timestamp))
	case TypePong:
		// Heartbeat acknowledged. No liveness timeout is enforced.
	case TypeGameEvent:
		// Run handlers off the read loop so pings stay responsive.
		go s.runGameEvent(env)
	default:
		log.Printf("Unhandled message type: %s", env.Type)
	}
}

func (s *Server) runGameEvent(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in game_event handler: %v", r)
		}
	}()
	if s.onGameEvent != nil {
		s.onGameEvent(env)
	}
}

// heartbeat pings the connection it was started for, so a replaced peer's
// heartbeat never writes to its successor.
func (s *Server) heartbeat(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.writeTo(conn, NewPing()) {
				return
			}
		}
	}
}

func (s *Server) send(env Envelope) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return false
	}
	return s.writeTo(conn, env)
}

func (s *Server) writeTo(conn *websocket.Conn, env Envelope) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.clearConn(conn)
		return false
	}
	if err := conn.WriteJSON(env); err != nil {
		log.Printf("Send failed: %v", err)
		s.clearConn(conn)
		return false
	}
	return true
}

// clearConn empties the connection slot only if it still holds conn, so a
// replacement peer is never knocked out by its predecessor's cleanup.
func (s *Server) clearConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}
