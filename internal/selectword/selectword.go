// Package selectword implements the select word macro: one key that selects
// the current word, extends the selection, or switches to line selection.
package selectword

import (
	"time"

	"github.com/frudas24/orbitkeys/internal/keycode"
)

// DefaultTimeout clears the selection mode after this much inactivity.
const DefaultTimeout = 2000 * time.Millisecond

// Mode is the current selection extension state.
type Mode int

const (
	// Idle means no recent press of the trigger key.
	Idle Mode = iota
	// Word means a word selection is in progress.
	Word
	// Line means a line selection is in progress.
	Line
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Word:
		return "word"
	case Line:
		return "line"
	default:
		return "idle"
	}
}

// Action names a selection hotkey sequence.
type Action byte

const (
	// ActionWord selects to the end of the word.
	ActionWord Action = 'W'
	// ActionBackWord selects to the start of the word.
	ActionBackWord Action = 'B'
	// ActionLine selects the current line.
	ActionLine Action = 'L'
)

// KeySink presses and releases keys on the host.
type KeySink interface {
	Register(code keycode.Code)
	Unregister(code keycode.Code)
}

// Options configures a Selector.
type Options struct {
	// Trigger is the key bound to the macro; defaults to keycode.SelectWord.
	Trigger keycode.Code
	// Timeout clears the mode after inactivity; zero disables it.
	Timeout time.Duration
	// MacHotkeys reports whether to use macOS hotkeys; nil means never.
	MacHotkeys func() bool
	// ShiftHeld reports whether the user is holding shift; nil means never.
	ShiftHeld func() bool
	// Now is the clock for the idle timeout; nil means time.Now.
	Now func() time.Time
}

// Selector is the select word state machine. It is not safe for concurrent use.
type Selector struct {
	sink       KeySink
	trigger    keycode.Code
	timeout    time.Duration
	macHotkeys func() bool
	shiftHeld  func() bool
	now        func() time.Time

	mode         Mode
	lastActivity time.Time
	downHeld     bool
}

// New returns an idle selector writing to sink.
func New(sink KeySink, opts Options) *Selector {
	s := &Selector{
		sink:       sink,
		trigger:    opts.Trigger,
		timeout:    opts.Timeout,
		macHotkeys: opts.MacHotkeys,
		shiftHeld:  opts.ShiftHeld,
		now:        time.Now,
	}
	if s.trigger == keycode.None {
		s.trigger = keycode.SelectWord
	}
	if s.macHotkeys == nil {
		s.macHotkeys = func() bool { return false }
	}
	if s.shiftHeld == nil {
		s.shiftHeld = func() bool { return false }
	}
	if opts.Now != nil {
		s.now = opts.Now
	}
	return s
}

// SetNowFunc overrides the clock used for the idle timeout.
func (s *Selector) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Mode returns the current selection mode.
func (s *Selector) Mode() Mode {
	return s.mode
}

// Trigger returns the key bound to the macro.
func (s *Selector) Trigger() keycode.Code {
	return s.trigger
}

// Process handles one key transition. It returns false when the trigger was
// consumed and true for every other key.
func (s *Selector) Process(code keycode.Code, pressed bool) bool {
	if code != s.trigger {
		if code == keycode.Left || code == keycode.Right {
			s.mode = Idle
		}
		return true
	}

	if !pressed {
		// Keep the mode so the next press extends the selection.
		if s.mode != Idle {
			s.Unregister()
		}
		return false
	}

	s.lastActivity = s.now()
	if s.shiftHeld() {
		s.pressLine()
	} else {
		s.pressWord()
	}
	return false
}

// Task clears the mode once the idle timeout has elapsed. Held keys are left
// alone; the trigger release already let go of them.
func (s *Selector) Task() {
	if s.timeout <= 0 || s.mode == Idle {
		return
	}
	if s.now().Sub(s.lastActivity) > s.timeout {
		s.mode = Idle
	}
}

// Register presses the hotkeys for action and leaves the modifiers held.
// It must be followed by Unregister and reports false for unknown actions.
func (s *Selector) Register(action Action) bool {
	mac := s.macHotkeys()
	switch action {
	case ActionBackWord:
		s.sink.Register(keycode.LShift)
		s.sink.Register(wordModifier(mac))
		s.tap(keycode.Left)
	case ActionWord:
		s.sink.Register(keycode.LShift)
		s.sink.Register(wordModifier(mac))
		s.tap(keycode.Right)
	case ActionLine:
		if mac {
			s.sink.Register(keycode.LCmd)
			s.tap(keycode.Left)
			s.sink.Register(keycode.LShift)
			s.tap(keycode.Right)
		} else {
			s.tap(keycode.Home)
			s.sink.Register(keycode.LShift)
			s.tap(keycode.End)
		}
	default:
		return false
	}
	return true
}

// Unregister releases every key a selection may have left held.
func (s *Selector) Unregister() {
	if s.downHeld {
		s.sink.Unregister(keycode.Down)
		s.downHeld = false
	}
	s.sink.Unregister(keycode.LShift)
	s.sink.Unregister(keycode.LCtrl)
	s.sink.Unregister(keycode.LAlt)
	s.sink.Unregister(keycode.LCmd)
}

// Tap registers and immediately unregisters action.
func (s *Selector) Tap(action Action) bool {
	if !s.Register(action) {
		return false
	}
	s.Unregister()
	return true
}

// pressWord handles a trigger press without shift.
func (s *Selector) pressWord() {
	switch s.mode {
	case Word:
		// The previous trigger release dropped shift and the word
		// modifier, so extending has to hold them again.
		s.Register(ActionWord)
	case Line:
		// Coming from a line selection restarts from scratch.
		s.Unregister()
		fallthrough
	default:
		s.moveWordStart()
		s.Register(ActionWord)
		s.mode = Word
	}
}

// pressLine handles a trigger press with shift held.
func (s *Selector) pressLine() {
	if s.mode == Line {
		s.Unregister()
	} else {
		s.Tap(ActionLine)
	}
	s.sink.Register(keycode.LShift)
	s.sink.Register(keycode.Down)
	s.downHeld = true
	s.mode = Line
}

// moveWordStart moves the cursor to the start of the current word.
func (s *Selector) moveWordStart() {
	mod := wordModifier(s.macHotkeys())
	s.sink.Register(mod)
	s.tap(keycode.Left)
	s.sink.Unregister(mod)
}

// tap presses and releases a single key.
func (s *Selector) tap(code keycode.Code) {
	s.sink.Register(code)
	s.sink.Unregister(code)
}

// wordModifier returns the word navigation modifier for the host style.
func wordModifier(mac bool) keycode.Code {
	if mac {
		return keycode.LAlt
	}
	return keycode.LCtrl
}
