package control

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/frudas24/orbitkeys/internal/config"
	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/orbital"
	"github.com/frudas24/orbitkeys/internal/session"
)

// Target is the runtime a Handler drives. *host.Host implements it.
type Target interface {
	Dispatch(ev host.Event) error
	Tap(code keycode.Code) error
	SetSpeedCurve(curve *orbital.SpeedCurve) error
	SetAngle(angle uint8) error
	Release() error
	State() (host.State, error)
}

// Handler applies control messages. It is safe for concurrent use when the
// target is.
type Handler struct {
	target  Target
	session *session.Session
	debug   bool
}

// NewHandler returns a handler for target.
func NewHandler(target Target, sess *session.Session, debug bool) *Handler {
	return &Handler{target: target, session: sess, debug: debug}
}

// Handle applies msg. A non-nil reply should be sent back to the client. An
// error means the target is gone and the connection should close.
func (h *Handler) Handle(msg Message) (*Reply, error) {
	switch msg.T {
	case TypeKey, TypeTap:
		return nil, h.handleKey(msg)
	case TypeSpeedCurve:
		return h.handleSpeedCurve(msg)
	case TypeAngle:
		if msg.Angle == nil {
			return errorReply("angle: missing value"), nil
		}
		return nil, h.target.SetAngle(uint8(*msg.Angle & 63))
	case TypeSetMac:
		h.session.SetMacOverride(msg.Mac)
		return nil, nil
	case TypeInputEnabled:
		if msg.Enabled == nil {
			return nil, nil
		}
		h.session.SetInputEnabled(*msg.Enabled)
		if !*msg.Enabled {
			return nil, h.target.Release()
		}
		return nil, nil
	case TypeState:
		st, err := h.State()
		if err != nil {
			return nil, err
		}
		return &Reply{T: ReplyState, State: &st}, nil
	default:
		return nil, nil
	}
}

// HandleRaw decodes a JSON message, applies it and encodes the reply. A nil
// slice means there is nothing to send back.
func (h *Handler) HandleRaw(data []byte) ([]byte, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode control message: %w", err)
	}
	reply, err := h.Handle(msg)
	if err != nil || reply == nil {
		return nil, err
	}
	return json.Marshal(reply)
}

// Release lifts everything held on the target.
func (h *Handler) Release() error {
	return h.target.Release()
}

// State returns the combined host and session state.
func (h *Handler) State() (State, error) {
	hs, err := h.target.State()
	if err != nil {
		return State{}, err
	}
	return State{Host: hs, Session: h.session.Snapshot()}, nil
}

// handleKey dispatches key and tap messages while input is enabled.
func (h *Handler) handleKey(msg Message) error {
	if !h.session.InputEnabled() {
		return nil
	}
	code, ok := keycode.Parse(msg.Code)
	if !ok {
		log.Printf("control: unknown key %q ignored", msg.Code)
		return nil
	}
	if h.debug {
		log.Printf("control: %s %s pressed=%v", msg.T, code, msg.Pressed)
	}
	if msg.T == TypeTap {
		return h.target.Tap(code)
	}
	return h.target.Dispatch(host.Event{Code: code, Pressed: msg.Pressed})
}

// handleSpeedCurve validates and applies a speed curve.
func (h *Handler) handleSpeedCurve(msg Message) (*Reply, error) {
	if len(msg.Curve) == 0 {
		return nil, h.target.SetSpeedCurve(nil)
	}
	curve, err := config.ParseSpeedCurve(msg.Curve)
	if err != nil {
		return errorReply(fmt.Sprintf("speedCurve: %v", err)), nil
	}
	return nil, h.target.SetSpeedCurve(&curve)
}

// errorReply builds an error reply.
func errorReply(text string) *Reply {
	return &Reply{T: ReplyError, Error: text}
}
