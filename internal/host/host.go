// Package host runs the orbital mouse and the select word macro on a single
// goroutine and forwards everything else to the OS.
package host

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/orbital"
	"github.com/frudas24/orbitkeys/internal/selectword"
	"github.com/frudas24/orbitkeys/internal/wininput"
)

// ErrStopped is returned once the loop has exited.
var ErrStopped = errors.New("host loop stopped")

const (
	defaultTick      = orbital.TickMs * time.Millisecond
	defaultQueueSize = 256
)

// Event is one key transition.
type Event struct {
	Code    keycode.Code
	Pressed bool
}

// Config configures a Host.
type Config struct {
	Orbital    orbital.Config
	SelectWord selectword.Options
	// Tick is the task period; zero means 16 ms.
	Tick time.Duration
	// QueueSize bounds pending events; zero means 256.
	QueueSize int
	// Debug logs every dispatched event.
	Debug bool
}

// State is a snapshot of both components.
type State struct {
	Orbital    orbital.State `json:"orbital"`
	SelectMode string        `json:"selectMode"`
	ShiftHeld  bool          `json:"shiftHeld"`
	HeldKeys   []string      `json:"heldKeys,omitempty"`
}

// Host owns the engine and the selector. All of their methods run on the
// goroutine executing Run; other goroutines go through Dispatch and Do.
type Host struct {
	engine   *orbital.Engine
	selector *selectword.Selector
	keys     *wininput.KeyWriter
	reports  *wininput.ReportWriter

	tick  time.Duration
	debug bool

	events chan Event
	calls  chan func()
	done   chan struct{}

	shiftDown map[keycode.Code]bool
}

// New wires a host to inj. isMac selects the hotkey style for the selector and
// overrides cfg.SelectWord.MacHotkeys when non-nil.
func New(cfg Config, inj wininput.Injector, isMac func() bool) *Host {
	h := &Host{
		keys:      wininput.NewKeyWriter(inj),
		reports:   wininput.NewReportWriter(inj),
		tick:      cfg.Tick,
		debug:     cfg.Debug,
		calls:     make(chan func()),
		done:      make(chan struct{}),
		shiftDown: make(map[keycode.Code]bool),
	}
	if h.tick <= 0 {
		h.tick = defaultTick
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	h.events = make(chan Event, size)

	opts := cfg.SelectWord
	if isMac != nil {
		opts.MacHotkeys = isMac
	}
	opts.ShiftHeld = h.shiftHeld
	h.engine = orbital.New(cfg.Orbital, h.reports)
	h.selector = selectword.New(h.keys, opts)
	return h
}

// Run drives the loop until ctx is done, then releases every held key and
// button. It returns nil on a clean shutdown.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	defer close(h.done)
	defer h.releaseAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-h.events:
			h.handle(ev)
		case fn := <-h.calls:
			fn()
		case <-ticker.C:
			h.step()
		}
	}
}

// Dispatch queues a key transition. It blocks while the queue is full.
func (h *Host) Dispatch(ev Event) error {
	select {
	case <-h.done:
		return ErrStopped
	default:
	}
	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// Tap queues a press followed by a release.
func (h *Host) Tap(code keycode.Code) error {
	if err := h.Dispatch(Event{Code: code, Pressed: true}); err != nil {
		return err
	}
	return h.Dispatch(Event{Code: code, Pressed: false})
}

// Do runs fn on the loop goroutine after every event queued before it, and
// waits for it to finish.
func (h *Host) Do(fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		h.drain()
		fn()
	}
	select {
	case h.calls <- wrapped:
	case <-h.done:
		return ErrStopped
	}
	<-finished
	return nil
}

// State returns a snapshot taken on the loop goroutine.
func (h *Host) State() (State, error) {
	var st State
	err := h.Do(func() { st = h.snapshot() })
	return st, err
}

// SetSpeedCurve replaces the speed curve; nil restores the default.
func (h *Host) SetSpeedCurve(curve *orbital.SpeedCurve) error {
	if curve != nil {
		c := *curve
		curve = &c
	}
	return h.Do(func() { h.engine.SetSpeedCurve(curve) })
}

// SetAngle sets the orbital heading.
func (h *Host) SetAngle(angle uint8) error {
	return h.Do(func() { h.engine.SetAngle(angle) })
}

// Release stops motion and releases every held key and button.
func (h *Host) Release() error {
	return h.Do(h.releaseAll)
}

// Done is closed when Run returns.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// handle routes one event: orbital first, then select word, then the OS.
func (h *Host) handle(ev Event) {
	if h.debug {
		log.Printf("host: %s pressed=%v", ev.Code, ev.Pressed)
	}
	if !h.engine.Process(ev.Code, ev.Pressed) {
		return
	}
	if !h.selector.Process(ev.Code, ev.Pressed) {
		return
	}
	if ev.Code.IsShift() {
		if ev.Pressed {
			h.shiftDown[ev.Code] = true
		} else {
			delete(h.shiftDown, ev.Code)
		}
	}
	if ev.Pressed {
		h.keys.Register(ev.Code)
	} else {
		h.keys.Unregister(ev.Code)
	}
}

// drain handles every event already queued.
func (h *Host) drain() {
	for {
		select {
		case ev := <-h.events:
			h.handle(ev)
		default:
			return
		}
	}
}

// step runs one housekeeping tick.
func (h *Host) step() {
	h.engine.Task()
	h.selector.Task()
}

// shiftHeld reports whether a physical shift key is down.
func (h *Host) shiftHeld() bool {
	return len(h.shiftDown) > 0
}

// releaseAll resets the engine and lifts all keys and buttons.
func (h *Host) releaseAll() {
	h.engine.Reset()
	h.reports.Release()
	h.keys.ReleaseAll()
	for code := range h.shiftDown {
		delete(h.shiftDown, code)
	}
}

// snapshot copies the current state.
func (h *Host) snapshot() State {
	st := State{
		Orbital:    h.engine.Snapshot(),
		SelectMode: h.selector.Mode().String(),
		ShiftHeld:  h.shiftHeld(),
	}
	for _, code := range heldCandidates {
		if h.keys.Held(code) {
			st.HeldKeys = append(st.HeldKeys, code.String())
		}
	}
	return st
}

// heldCandidates are the keys reported in snapshots.
var heldCandidates = []keycode.Code{
	keycode.Down,
	keycode.LShift, keycode.RShift,
	keycode.LCtrl, keycode.RCtrl,
	keycode.LAlt, keycode.RAlt,
	keycode.LGui, keycode.RGui,
}
