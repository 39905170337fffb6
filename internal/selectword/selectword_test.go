package selectword

import (
	"reflect"
	"testing"
	"time"

	"github.com/frudas24/orbitkeys/internal/keycode"
)

// keyLog records key transitions as "+NAME" and "-NAME".
type keyLog struct {
	events []string
}

// Register records a press.
func (l *keyLog) Register(code keycode.Code) {
	l.events = append(l.events, "+"+code.String())
}

// Unregister records a release.
func (l *keyLog) Unregister(code keycode.Code) {
	l.events = append(l.events, "-"+code.String())
}

// take returns and clears the recorded events.
func (l *keyLog) take() []string {
	out := l.events
	l.events = nil
	return out
}

// fixture bundles a selector with controllable collaborators.
type fixture struct {
	sel   *Selector
	keys  *keyLog
	mac   bool
	shift bool
	now   time.Time
}

// newFixture returns a selector with the default trigger and timeout.
func newFixture() *fixture {
	f := &fixture{keys: &keyLog{}, now: time.Unix(1000, 0)}
	f.sel = New(f.keys, Options{
		Timeout:    DefaultTimeout,
		MacHotkeys: func() bool { return f.mac },
		ShiftHeld:  func() bool { return f.shift },
		Now:        func() time.Time { return f.now },
	})
	return f
}

// press sends a full press and release of the trigger.
func (f *fixture) press() {
	f.sel.Process(keycode.SelectWord, true)
	f.sel.Process(keycode.SelectWord, false)
}

var releaseAll = []string{"-KC_LSFT", "-KC_LCTL", "-KC_LALT", "-KC_LGUI"}

// TestProcess_OtherKeysPassThrough verifies only the trigger is consumed.
func TestProcess_OtherKeysPassThrough(t *testing.T) {
	f := newFixture()
	if !f.sel.Process(keycode.A, true) {
		t.Fatalf("expected KC_A to pass through")
	}
	if f.sel.Process(keycode.SelectWord, true) {
		t.Fatalf("expected trigger to be consumed")
	}
}

// TestProcess_FirstPressSelectsWord verifies the Windows word selection sequence.
func TestProcess_FirstPressSelectsWord(t *testing.T) {
	f := newFixture()
	f.sel.Process(keycode.SelectWord, true)

	want := []string{
		"+KC_LCTL", "+KC_LEFT", "-KC_LEFT", "-KC_LCTL",
		"+KC_LSFT", "+KC_LCTL", "+KC_RIGHT", "-KC_RIGHT",
	}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f.sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", f.sel.Mode())
	}

	f.sel.Process(keycode.SelectWord, false)
	if got := f.keys.take(); !reflect.DeepEqual(got, releaseAll) {
		t.Fatalf("expected %v, got %v", releaseAll, got)
	}
	if f.sel.Mode() != Word {
		t.Fatalf("expected release to keep word mode, got %s", f.sel.Mode())
	}
}

// TestProcess_MacWordUsesAlt verifies macOS hotkeys navigate with Alt.
func TestProcess_MacWordUsesAlt(t *testing.T) {
	f := newFixture()
	f.mac = true
	f.sel.Process(keycode.SelectWord, true)

	want := []string{
		"+KC_LALT", "+KC_LEFT", "-KC_LEFT", "-KC_LALT",
		"+KC_LSFT", "+KC_LALT", "+KC_RIGHT", "-KC_RIGHT",
	}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestProcess_SecondPressExtends verifies a repeated press extends with
// shift and the word modifier held, and releases them on trigger release.
func TestProcess_SecondPressExtends(t *testing.T) {
	f := newFixture()
	f.press()
	f.keys.take()

	f.sel.Process(keycode.SelectWord, true)
	want := []string{"+KC_LSFT", "+KC_LCTL", "+KC_RIGHT", "-KC_RIGHT"}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f.sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", f.sel.Mode())
	}

	f.sel.Process(keycode.SelectWord, false)
	if got := f.keys.take(); !reflect.DeepEqual(got, releaseAll) {
		t.Fatalf("expected %v, got %v", releaseAll, got)
	}
}

// TestProcess_MacSecondPressExtendsWithAlt verifies macOS extension holds Alt.
func TestProcess_MacSecondPressExtendsWithAlt(t *testing.T) {
	f := newFixture()
	f.mac = true
	f.press()
	f.keys.take()

	f.sel.Process(keycode.SelectWord, true)
	want := []string{"+KC_LSFT", "+KC_LALT", "+KC_RIGHT", "-KC_RIGHT"}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestProcess_ShiftSelectsLine verifies the Windows line selection sequence.
func TestProcess_ShiftSelectsLine(t *testing.T) {
	f := newFixture()
	f.shift = true
	f.sel.Process(keycode.SelectWord, true)

	want := []string{
		"+KC_HOME", "-KC_HOME", "+KC_LSFT", "+KC_END", "-KC_END",
		"-KC_LSFT", "-KC_LCTL", "-KC_LALT", "-KC_LGUI",
		"+KC_LSFT", "+KC_DOWN",
	}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f.sel.Mode() != Line {
		t.Fatalf("expected line mode, got %s", f.sel.Mode())
	}

	f.sel.Process(keycode.SelectWord, false)
	want = append([]string{"-KC_DOWN"}, releaseAll...)
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestProcess_MacLineUsesCmd verifies macOS line selection.
func TestProcess_MacLineUsesCmd(t *testing.T) {
	f := newFixture()
	f.mac = true
	if !f.sel.Tap(ActionLine) {
		t.Fatalf("expected line tap to succeed")
	}
	want := append([]string{
		"+KC_LGUI", "+KC_LEFT", "-KC_LEFT", "+KC_LSFT", "+KC_RIGHT", "-KC_RIGHT",
	}, releaseAll...)
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestProcess_WordThenShiftSwitchesToLine verifies shift turns a word selection into a line one.
func TestProcess_WordThenShiftSwitchesToLine(t *testing.T) {
	f := newFixture()
	f.press()
	f.keys.take()

	f.shift = true
	f.sel.Process(keycode.SelectWord, true)
	got := f.keys.take()
	if len(got) == 0 || got[0] != "+KC_HOME" {
		t.Fatalf("expected line selection to start at home, got %v", got)
	}
	if f.sel.Mode() != Line {
		t.Fatalf("expected line mode, got %s", f.sel.Mode())
	}
}

// TestProcess_LineRepeatRepressesDown verifies a repeated shift press restarts the extension.
func TestProcess_LineRepeatRepressesDown(t *testing.T) {
	f := newFixture()
	f.shift = true
	f.sel.Process(keycode.SelectWord, true)
	f.keys.take()

	f.sel.Process(keycode.SelectWord, true)
	want := append(append([]string{"-KC_DOWN"}, releaseAll...), "+KC_LSFT", "+KC_DOWN")
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestProcess_LineThenPlainRestartsWord verifies leaving line mode re-enters word selection.
func TestProcess_LineThenPlainRestartsWord(t *testing.T) {
	f := newFixture()
	f.shift = true
	f.sel.Process(keycode.SelectWord, true)
	f.keys.take()

	f.shift = false
	f.sel.Process(keycode.SelectWord, true)
	want := append(append([]string{"-KC_DOWN"}, releaseAll...),
		"+KC_LCTL", "+KC_LEFT", "-KC_LEFT", "-KC_LCTL",
		"+KC_LSFT", "+KC_LCTL", "+KC_RIGHT", "-KC_RIGHT",
	)
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f.sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", f.sel.Mode())
	}
}

// TestProcess_ArrowClearsMode verifies arrows reset the mode without releasing keys.
func TestProcess_ArrowClearsMode(t *testing.T) {
	for _, code := range []keycode.Code{keycode.Left, keycode.Right} {
		f := newFixture()
		f.sel.Process(keycode.SelectWord, true)
		f.keys.take()

		if !f.sel.Process(code, false) {
			t.Fatalf("%s: expected arrow to pass through", code)
		}
		if f.sel.Mode() != Idle {
			t.Fatalf("%s: expected idle mode, got %s", code, f.sel.Mode())
		}
		if got := f.keys.take(); len(got) != 0 {
			t.Fatalf("%s: expected no key events, got %v", code, got)
		}
	}
}

// TestProcess_UpDownKeepMode verifies other arrows leave the mode alone.
func TestProcess_UpDownKeepMode(t *testing.T) {
	f := newFixture()
	f.press()
	f.sel.Process(keycode.Up, true)
	if f.sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", f.sel.Mode())
	}
}

// TestTask_Timeout verifies inactivity returns the selector to idle.
func TestTask_Timeout(t *testing.T) {
	f := newFixture()
	f.press()
	f.keys.take()

	f.now = f.now.Add(DefaultTimeout)
	f.sel.Task()
	if f.sel.Mode() != Word {
		t.Fatalf("expected word mode at exactly the timeout, got %s", f.sel.Mode())
	}

	f.now = f.now.Add(time.Millisecond)
	f.sel.Task()
	if f.sel.Mode() != Idle {
		t.Fatalf("expected idle mode, got %s", f.sel.Mode())
	}
	if got := f.keys.take(); len(got) != 0 {
		t.Fatalf("expected timeout to emit nothing, got %v", got)
	}
}

// TestTask_ZeroTimeoutDisabled verifies a zero timeout never clears the mode.
func TestTask_ZeroTimeoutDisabled(t *testing.T) {
	keys := &keyLog{}
	now := time.Unix(0, 0)
	sel := New(keys, Options{Now: func() time.Time { return now }})
	sel.Process(keycode.SelectWord, true)

	now = now.Add(time.Hour)
	sel.Task()
	if sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", sel.Mode())
	}
}

// TestOptions_CustomTrigger verifies the trigger key is configurable.
func TestOptions_CustomTrigger(t *testing.T) {
	keys := &keyLog{}
	sel := New(keys, Options{Trigger: keycode.Code('Q')})
	if !sel.Process(keycode.SelectWord, true) {
		t.Fatalf("expected default trigger to pass through")
	}
	if sel.Process(keycode.Code('Q'), true) {
		t.Fatalf("expected KC_Q to be consumed")
	}
	if sel.Mode() != Word {
		t.Fatalf("expected word mode, got %s", sel.Mode())
	}
}

// TestRegister_BackWord verifies backward word selection.
func TestRegister_BackWord(t *testing.T) {
	f := newFixture()
	if !f.sel.Register(ActionBackWord) {
		t.Fatalf("expected register to succeed")
	}
	want := []string{"+KC_LSFT", "+KC_LCTL", "+KC_LEFT", "-KC_LEFT"}
	if got := f.keys.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestTap_UnknownAction verifies unknown actions emit nothing.
func TestTap_UnknownAction(t *testing.T) {
	f := newFixture()
	if f.sel.Tap('X') {
		t.Fatalf("expected unknown action to fail")
	}
	if got := f.keys.take(); len(got) != 0 {
		t.Fatalf("expected no key events, got %v", got)
	}
}
