package control

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/frudas24/orbitkeys/internal/session"
)

// Server handles websocket control input.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	handler  *Handler
	conn     *websocket.Conn
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, handler *Handler) *Server {
	return &Server{
		session: sess,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		log.Printf("control: %v", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()), time.Now().Add(1*time.Second))
		_ = conn.Close()
		return
	}
	id := uuid.NewString()
	s.session.SetControlID(id)
	log.Printf("control: %s connected from %s", id, r.RemoteAddr)
	defer s.cleanupConn(conn, id)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("control: %s read: %v", id, err)
			}
			return
		}
		reply, err := s.handler.Handle(msg)
		if err != nil {
			log.Printf("control: %s %s: %v", id, msg.T, err)
			return
		}
		if reply != nil {
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection and releases anything the client
// left held.
func (s *Server) cleanupConn(conn *websocket.Conn, id string) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
	s.session.SetControlID("")
	if err := s.handler.Release(); err != nil {
		log.Printf("control: %s release: %v", id, err)
	}
	log.Printf("control: %s disconnected", id)
}
