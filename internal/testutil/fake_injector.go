package testutil

import (
	"sync"

	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/wininput"
)

// Call records a single injected action.
type Call struct {
	Name string
	X    int
	Y    int
	N    int
	Code keycode.Code
}

// FakeInjector implements wininput.Injector and records calls for tests.
// It is safe for concurrent use so handler tests can inspect it while the
// host loop runs.
type FakeInjector struct {
	mu    sync.Mutex
	calls []Call
	// Err, when set, is returned from every call after recording it.
	Err error
}

// Ensure FakeInjector implements the interface.
var _ wininput.Injector = (*FakeInjector)(nil)

// Calls returns a copy of the recorded calls.
func (f *FakeInjector) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reset clears the recorded calls.
func (f *FakeInjector) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// record appends c and returns the configured error.
func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Err
}

// MoveRel records a relative move.
func (f *FakeInjector) MoveRel(dx, dy int) error {
	return f.record(Call{Name: "MoveRel", X: dx, Y: dy})
}

// ButtonDown records a button press.
func (f *FakeInjector) ButtonDown(n int) error {
	return f.record(Call{Name: "ButtonDown", N: n})
}

// ButtonUp records a button release.
func (f *FakeInjector) ButtonUp(n int) error {
	return f.record(Call{Name: "ButtonUp", N: n})
}

// Wheel records a vertical wheel delta.
func (f *FakeInjector) Wheel(delta int) error {
	return f.record(Call{Name: "Wheel", Y: delta})
}

// HWheel records a horizontal wheel delta.
func (f *FakeInjector) HWheel(delta int) error {
	return f.record(Call{Name: "HWheel", X: delta})
}

// KeyDown records a key press.
func (f *FakeInjector) KeyDown(code keycode.Code) error {
	return f.record(Call{Name: "KeyDown", Code: code})
}

// KeyUp records a key release.
func (f *FakeInjector) KeyUp(code keycode.Code) error {
	return f.record(Call{Name: "KeyUp", Code: code})
}
