package signaling

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"

	keys "github.com/frudas24/orbitkeys/internal/webrtc"
)

const writeWait = time.Second

// ClientPolicy controls how a second signaling client is handled.
type ClientPolicy int

const (
	// ClientReject refuses new clients while one is active.
	ClientReject ClientPolicy = iota
	// ClientReplace drops the active client in favour of the new one.
	ClientReplace
)

// Options configures a Server.
type Options struct {
	Policy ClientPolicy
	// Authorized gates upgrades; nil admits everyone.
	Authorized func() bool
	// Release lifts held input when the active client leaves or is replaced.
	Release func()
}

// Server negotiates one keys peer per websocket client.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	endpoint *keys.Endpoint
	opts     Options
	active   *client
}

// client is one signaling websocket and the peer it negotiates.
type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	peer    *webrtc.PeerConnection
}

// NewServer returns a signaling server that creates peers on endpoint.
func NewServer(endpoint *keys.Endpoint, opts Options) *Server {
	return &Server{
		endpoint: endpoint,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the offer/answer exchange.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.opts.Authorized != nil && !s.opts.Authorized() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	if err := s.admit(c); err != nil {
		log.Printf("signaling: %s: %v", c.id, err)
		c.close(websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer s.leave(c)

	peer, err := s.endpoint.NewPeer()
	if err != nil {
		log.Printf("signaling: %s: new peer: %v", c.id, err)
		c.close(websocket.CloseInternalServerErr, "peer unavailable")
		return
	}
	c.peer = peer
	peer.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand == nil {
			return
		}
		init := cand.ToJSON()
		_ = c.send(Message{T: TypeICE, Candidate: &init})
	})
	log.Printf("signaling: %s connected from %s", c.id, r.RemoteAddr)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("signaling: %s read: %v", c.id, err)
			}
			return
		}
		bye, err := s.handle(c, msg)
		if err != nil {
			log.Printf("signaling: %s %s: %v", c.id, msg.T, err)
			_ = c.send(Message{T: TypeError, Error: err.Error()})
			c.close(websocket.CloseUnsupportedData, msg.T+" rejected")
			return
		}
		if bye {
			c.close(websocket.CloseNormalClosure, "bye")
			return
		}
	}
}

// Close drops the active client, if any.
func (s *Server) Close() {
	s.mu.Lock()
	c := s.active
	s.mu.Unlock()
	if c != nil {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}
}

// admit makes c the active client according to the policy.
func (s *Server) admit(c *client) error {
	s.mu.Lock()
	prev := s.active
	if prev != nil && s.opts.Policy != ClientReplace {
		s.mu.Unlock()
		return errors.New("client already connected")
	}
	s.active = c
	s.mu.Unlock()

	if prev != nil {
		log.Printf("signaling: %s replaced by %s", prev.id, c.id)
		prev.close(websocket.ClosePolicyViolation, "replaced by a new client")
		s.release()
	}
	return nil
}

// leave closes c's peer and socket, releasing input if c was still active.
func (s *Server) leave(c *client) {
	s.mu.Lock()
	wasActive := s.active == c
	if wasActive {
		s.active = nil
	}
	s.mu.Unlock()

	if c.peer != nil {
		_ = c.peer.Close()
	}
	_ = c.conn.Close()
	if wasActive {
		s.release()
	}
	log.Printf("signaling: %s disconnected", c.id)
}

// release runs the configured release hook.
func (s *Server) release() {
	if s.opts.Release != nil {
		s.opts.Release()
	}
}

// handle applies one message. It reports true when the client said bye.
func (s *Server) handle(c *client, msg Message) (bool, error) {
	switch msg.T {
	case TypeOffer:
		return false, s.answer(c, msg.SDP)
	case TypeICE:
		if msg.Candidate == nil {
			return false, nil
		}
		return false, c.peer.AddICECandidate(*msg.Candidate)
	case TypeBye:
		return true, nil
	default:
		return false, nil
	}
}

// answer validates an offer and replies with a fully gathered answer.
func (s *Server) answer(c *client, offer string) error {
	if err := checkOffer(offer); err != nil {
		return err
	}
	if err := c.peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  offer,
	}); err != nil {
		return fmt.Errorf("remote description: %w", err)
	}
	answer, err := c.peer.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(c.peer)
	if err := c.peer.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("local description: %w", err)
	}
	<-gathered
	local := c.peer.LocalDescription()
	if local == nil {
		return errors.New("missing local description")
	}
	return c.send(Message{T: TypeAnswer, SDP: local.SDP})
}

// send writes msg to the client socket.
func (c *client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// close sends a close frame with code and reason, then closes the socket.
func (c *client) close(code int, reason string) {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.writeMu.Unlock()
	_ = c.conn.Close()
}
