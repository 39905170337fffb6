// Package orbital implements heading-based mouse emulation driven by key holds.
package orbital

import (
	"math"

	"github.com/frudas24/orbitkeys/internal/keycode"
)

// Report is a single relative pointer update.
type Report struct {
	// Buttons holds one bit per button, bit n-1 for button n.
	Buttons uint8
	// X and Y are pixel deltas; Y grows toward the bottom of the screen.
	X int16
	Y int16
	// V and H are wheel deltas in Q4.4 notches; V > 0 scrolls up, H > 0 right.
	V int8
	H int8
}

// ReportSink receives pointer reports. Delivery is fire-and-forget.
type ReportSink interface {
	SendReport(r Report)
}

// State is a read-only copy of the engine state.
type State struct {
	Active      bool       `json:"active"`
	Slow        bool       `json:"slow"`
	Angle       uint8      `json:"angle"`
	Fwd         int8       `json:"fwd"`
	Turn        int8       `json:"turn"`
	ElapsedMs   uint16     `json:"elapsedMs"`
	Selected    uint8      `json:"selected"`
	DoubleClick uint8      `json:"doubleClick"`
	ButtonHeld  bool       `json:"buttonHeld"`
	Buttons     uint8      `json:"buttons"`
	Curve       SpeedCurve `json:"curve"`
}

// Engine converts orbital key actions into pointer reports.
// It is not safe for concurrent use; the host drives it from one goroutine.
type Engine struct {
	cfg   Config
	curve SpeedCurve
	sink  ReportSink

	buttons uint8

	active      bool
	slow        bool
	angle       uint8
	fwd         int8
	turn        int8
	elapsedMs   uint16
	selected    uint8
	doubleClick uint8
	buttonHeld  bool

	wheelUp    bool
	wheelDown  bool
	wheelLeft  bool
	wheelRight bool
}

// New returns an idle engine heading up with button 1 selected.
func New(cfg Config, sink ReportSink) *Engine {
	cfg = cfg.normalize()
	return &Engine{
		cfg:      cfg,
		curve:    cfg.SpeedCurve,
		sink:     sink,
		selected: 1,
	}
}

// Process handles one key transition. It returns false when the code was
// consumed and true when the caller should process it normally.
func (e *Engine) Process(code keycode.Code, pressed bool) bool {
	switch code {
	case keycode.OMUp:
		e.direction(&e.fwd, 1, pressed)
	case keycode.OMDown:
		e.direction(&e.fwd, -1, pressed)
	case keycode.OMLeft:
		e.direction(&e.turn, 1, pressed)
	case keycode.OMRight:
		e.direction(&e.turn, -1, pressed)

	case keycode.OMSlow:
		e.slow = pressed

	case keycode.OMWheelUp:
		e.wheel(&e.wheelUp, pressed)
	case keycode.OMWheelDown:
		e.wheel(&e.wheelDown, pressed)
	case keycode.OMWheelLeft:
		e.wheel(&e.wheelLeft, pressed)
	case keycode.OMWheelRight:
		e.wheel(&e.wheelRight, pressed)

	case keycode.OMBtnSel:
		e.setButton(e.selected, pressed)

	case keycode.OMDoubleSel:
		if pressed {
			// First click now, second one from Task after the delay.
			e.click(e.selected)
			e.doubleClick = e.selected
			e.start()
		}

	case keycode.OMHoldSel:
		if pressed {
			e.buttonHeld = true
			e.setButton(e.selected, true)
		}

	case keycode.OMReleaseSel:
		if pressed && e.buttonHeld {
			e.buttonHeld = false
			e.setButton(e.selected, false)
		}

	default:
		if n, ok := keycode.Button(code); ok {
			e.setButton(uint8(n), pressed)
			return false
		}
		if n, ok := keycode.Select(code); ok {
			if pressed {
				e.selected = uint8(n)
			}
			return false
		}
		return true
	}
	return false
}

// Task advances motion by one tick. Call it every TickMs milliseconds.
func (e *Engine) Task() {
	if !e.active {
		return
	}

	busy := false

	if e.doubleClick != 0 {
		e.advance()
		if e.elapsedMs >= e.cfg.DoubleClickDelayMs {
			e.click(e.doubleClick)
			e.doubleClick = 0
		}
		busy = true
	}

	if e.fwd != 0 || e.turn != 0 {
		if e.fwd != 0 {
			e.moveForward()
		}
		if e.turn != 0 {
			e.orbit()
		}
		e.advance()
		busy = true
	}

	if e.wheelUp || e.wheelDown || e.wheelLeft || e.wheelRight {
		e.scroll()
		busy = true
	}

	e.active = busy
}

// Angle returns the heading in [0, 63]; 0 is up and 16 is left.
func (e *Engine) Angle() uint8 {
	return e.angle
}

// SetAngle sets the heading, wrapping it to [0, 63].
func (e *Engine) SetAngle(angle uint8) {
	e.angle = angle & phaseMask
}

// SetSpeedCurve replaces the speed curve; nil restores the configured default.
func (e *Engine) SetSpeedCurve(curve *SpeedCurve) {
	if curve == nil {
		e.curve = e.cfg.SpeedCurve
		return
	}
	e.curve = *curve
}

// Active reports whether Task has pending work.
func (e *Engine) Active() bool {
	return e.active
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	return State{
		Active:      e.active,
		Slow:        e.slow,
		Angle:       e.angle,
		Fwd:         e.fwd,
		Turn:        e.turn,
		ElapsedMs:   e.elapsedMs,
		Selected:    e.selected,
		DoubleClick: e.doubleClick,
		ButtonHeld:  e.buttonHeld,
		Buttons:     e.buttons,
		Curve:       e.curve,
	}
}

// Reset stops all motion and releases every pressed button.
func (e *Engine) Reset() {
	e.fwd, e.turn = 0, 0
	e.wheelUp, e.wheelDown, e.wheelLeft, e.wheelRight = false, false, false, false
	e.doubleClick = 0
	e.buttonHeld = false
	e.slow = false
	e.active = false
	if e.buttons != 0 {
		e.buttons = 0
		e.send(Report{})
	}
}

// direction applies a press or release of a signed movement key. A release
// only clears the intent this key set, so a newer opposite press survives.
func (e *Engine) direction(field *int8, dir int8, pressed bool) {
	if pressed {
		*field = dir
		e.start()
		return
	}
	if *field == dir {
		*field = 0
	}
}

// wheel records a wheel key transition.
func (e *Engine) wheel(flag *bool, pressed bool) {
	*flag = pressed
	if pressed {
		e.active = true
	}
}

// start marks the engine active and restarts the speed ramp.
func (e *Engine) start() {
	e.active = true
	e.elapsedMs = 0
}

// advance adds one tick to the elapsed time, saturating at the uint16 limit.
func (e *Engine) advance() {
	if e.elapsedMs > math.MaxUint16-TickMs {
		e.elapsedMs = math.MaxUint16
		return
	}
	e.elapsedMs += TickMs
}

// speed interpolates the speed curve at the current elapsed time.
func (e *Engine) speed() uint16 {
	return interpolate(&e.curve, e.elapsedMs)
}

// moveForward emits one tick of forward or backward motion.
func (e *Engine) moveForward() {
	x, y := heading(e.angle, e.speed())
	dx := (x >> 8) * int32(e.fwd)
	dy := (y >> 8) * int32(e.fwd)

	if e.slow {
		dx = (dx * int32(e.cfg.SlowMoveFactor)) >> 8
		dy = (dy * int32(e.cfg.SlowMoveFactor)) >> 8
	}

	e.send(Report{X: int16(dx), Y: int16(-dy)})
}

// orbit steps the heading and emits the chord between the old and new points
// of the turning circle, so the pointer swings around instead of standing still.
func (e *Engine) orbit() {
	radius := uint16(e.cfg.Radius)
	if e.slow {
		radius = uint16((uint32(radius) * uint32(e.cfg.SlowTurnFactor)) >> 8)
	}

	x0, y0 := heading(e.angle, radius)
	e.angle = uint8(int(e.angle)+int(e.turn)) & phaseMask
	x1, y1 := heading(e.angle, radius)

	e.send(Report{
		X: int16((x1 - x0) >> 8),
		Y: int16((y0 - y1) >> 8),
	})
}

// scroll emits one tick of wheel motion. Up wins over down and left over right.
func (e *Engine) scroll() {
	var r Report
	if e.wheelUp {
		r.V = e.cfg.WheelSpeed
	} else if e.wheelDown {
		r.V = -e.cfg.WheelSpeed
	}
	if e.wheelLeft {
		r.H = -e.cfg.WheelSpeed
	} else if e.wheelRight {
		r.H = e.cfg.WheelSpeed
	}
	e.send(r)
}

// setButton sets or clears one button bit and flushes a report immediately.
func (e *Engine) setButton(n uint8, down bool) {
	if n < 1 || n > 8 {
		return
	}
	bit := uint8(1) << (n - 1)
	if down {
		e.buttons |= bit
	} else {
		e.buttons &^= bit
	}
	e.send(Report{})
}

// click presses and releases a button.
func (e *Engine) click(n uint8) {
	e.setButton(n, true)
	e.setButton(n, false)
}

// send stamps the current button state on r and hands it to the sink.
func (e *Engine) send(r Report) {
	r.Buttons = e.buttons
	if e.sink != nil {
		e.sink.SendReport(r)
	}
}

// interpolate samples curve piecewise linearly at t milliseconds.
// Samples sit 256 ms apart and the last one holds forever.
func interpolate(curve *SpeedCurve, t uint16) uint16 {
	idx := int(t / 256)
	if idx >= CurveLen-1 {
		return uint16(curve[CurveLen-1])
	}
	frac := uint32(t % 256)
	lo := uint32(curve[idx])
	hi := uint32(curve[idx+1])
	return uint16((lo*(256-frac) + hi*frac) >> 8)
}
