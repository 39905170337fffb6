package control

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/hostos"
	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/orbital"
	"github.com/frudas24/orbitkeys/internal/session"
)

// fakeTarget records calls made by a Handler.
type fakeTarget struct {
	mu       sync.Mutex
	events   []host.Event
	taps     []keycode.Code
	curve    *orbital.SpeedCurve
	curveSet bool
	angle    *uint8
	releases int
	err      error
}

func (f *fakeTarget) Dispatch(ev host.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeTarget) Tap(code keycode.Code) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taps = append(f.taps, code)
	return f.err
}

func (f *fakeTarget) SetSpeedCurve(curve *orbital.SpeedCurve) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.curve = curve
	f.curveSet = true
	return f.err
}

func (f *fakeTarget) SetAngle(angle uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.angle = &angle
	return f.err
}

func (f *fakeTarget) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return f.err
}

func (f *fakeTarget) State() (host.State, error) {
	return host.State{SelectMode: "idle"}, f.err
}

func (f *fakeTarget) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases
}

// newTestHandler returns a handler on a fake target with a Windows host.
func newTestHandler() (*Handler, *fakeTarget, *session.Session) {
	target := &fakeTarget{}
	sess := session.New("secret", hostos.NewDetectorFor(hostos.Auto, "windows"))
	return NewHandler(target, sess, false), target, sess
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// TestHandle_KeyDispatch verifies key messages reach the target.
func TestHandle_KeyDispatch(t *testing.T) {
	h, target, _ := newTestHandler()
	if _, err := h.Handle(Message{T: TypeKey, Code: "om_u", Pressed: true}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(target.events) != 1 || target.events[0] != (host.Event{Code: keycode.OMUp, Pressed: true}) {
		t.Fatalf("expected OM_U press, got %#v", target.events)
	}
}

// TestHandle_Tap verifies tap messages use Tap.
func TestHandle_Tap(t *testing.T) {
	h, target, _ := newTestHandler()
	if _, err := h.Handle(Message{T: TypeTap, Code: "KC_LEFT"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(target.taps) != 1 || target.taps[0] != keycode.Left {
		t.Fatalf("expected left tap, got %#v", target.taps)
	}
}

// TestHandle_UnknownKeyIgnored verifies unknown names are dropped.
func TestHandle_UnknownKeyIgnored(t *testing.T) {
	h, target, _ := newTestHandler()
	reply, err := h.Handle(Message{T: TypeKey, Code: "KC_NOPE", Pressed: true})
	if err != nil || reply != nil {
		t.Fatalf("expected silent ignore, got %v %v", reply, err)
	}
	if len(target.events) != 0 {
		t.Fatalf("expected no events, got %#v", target.events)
	}
}

// TestHandle_InputDisabled verifies keys are dropped and input is released.
func TestHandle_InputDisabled(t *testing.T) {
	h, target, sess := newTestHandler()
	if _, err := h.Handle(Message{T: TypeInputEnabled, Enabled: boolPtr(false)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sess.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	if target.releaseCount() != 1 {
		t.Fatalf("expected one release, got %d", target.releaseCount())
	}
	if _, err := h.Handle(Message{T: TypeKey, Code: "KC_A", Pressed: true}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(target.events) != 0 {
		t.Fatalf("expected key dropped, got %#v", target.events)
	}
}

// TestHandle_SpeedCurve verifies valid, empty and invalid curves.
func TestHandle_SpeedCurve(t *testing.T) {
	h, target, _ := newTestHandler()
	values := make([]int, orbital.CurveLen)
	for i := range values {
		values[i] = 100
	}
	if reply, err := h.Handle(Message{T: TypeSpeedCurve, Curve: values}); err != nil || reply != nil {
		t.Fatalf("expected curve applied, got %v %v", reply, err)
	}
	if target.curve == nil || target.curve[15] != 100 {
		t.Fatalf("expected curve, got %v", target.curve)
	}

	if _, err := h.Handle(Message{T: TypeSpeedCurve}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !target.curveSet || target.curve != nil {
		t.Fatalf("expected default restore, got %v", target.curve)
	}

	reply, err := h.Handle(Message{T: TypeSpeedCurve, Curve: []int{1, 2}})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if reply == nil || reply.T != ReplyError {
		t.Fatalf("expected error reply, got %#v", reply)
	}
}

// TestHandle_AngleWraps verifies the heading wraps to 64 phases.
func TestHandle_AngleWraps(t *testing.T) {
	h, target, _ := newTestHandler()
	if _, err := h.Handle(Message{T: TypeAngle, Angle: intPtr(65)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if target.angle == nil || *target.angle != 1 {
		t.Fatalf("expected angle 1, got %v", target.angle)
	}
	reply, _ := h.Handle(Message{T: TypeAngle})
	if reply == nil || reply.T != ReplyError {
		t.Fatalf("expected error reply for missing angle, got %#v", reply)
	}
}

// TestHandle_SetMac verifies the override is stored and cleared.
func TestHandle_SetMac(t *testing.T) {
	h, _, sess := newTestHandler()
	if _, err := h.Handle(Message{T: TypeSetMac, Mac: boolPtr(true)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !sess.IsMac() {
		t.Fatalf("expected mac override")
	}
	if _, err := h.Handle(Message{T: TypeSetMac}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sess.IsMac() {
		t.Fatalf("expected auto windows after clearing override")
	}
}

// TestHandle_StateReply verifies state requests return both halves.
func TestHandle_StateReply(t *testing.T) {
	h, _, _ := newTestHandler()
	reply, err := h.Handle(Message{T: TypeState})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if reply == nil || reply.T != ReplyState || reply.State == nil {
		t.Fatalf("expected state reply, got %#v", reply)
	}
	if reply.State.Host.SelectMode != "idle" || reply.State.Session.HostOS != "windows" {
		t.Fatalf("unexpected state: %+v", reply.State)
	}
}

// TestHandle_TargetError verifies target errors close the connection.
func TestHandle_TargetError(t *testing.T) {
	h, target, _ := newTestHandler()
	target.err = host.ErrStopped
	if _, err := h.Handle(Message{T: TypeKey, Code: "KC_A", Pressed: true}); !errors.Is(err, host.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

// TestHandleRaw_RoundTrip verifies JSON decoding and reply encoding.
func TestHandleRaw_RoundTrip(t *testing.T) {
	h, _, _ := newTestHandler()
	out, err := h.HandleRaw([]byte(`{"t":"state"}`))
	if err != nil {
		t.Fatalf("handle raw: %v", err)
	}
	var reply Reply
	if err := json.Unmarshal(out, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.T != ReplyState {
		t.Fatalf("expected state reply, got %s", out)
	}

	out, err = h.HandleRaw([]byte(`{"t":"key","code":"KC_A","pressed":true}`))
	if err != nil || out != nil {
		t.Fatalf("expected no reply, got %s %v", out, err)
	}
	if _, err := h.HandleRaw([]byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
