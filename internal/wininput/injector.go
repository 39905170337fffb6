// Package wininput injects pointer and keyboard input into the host OS.
package wininput

import (
	"errors"

	"github.com/frudas24/orbitkeys/internal/keycode"
)

// ErrUnsupported indicates WinAPI input injection is not available.
var ErrUnsupported = errors.New("wininput is only supported on Windows")

// WheelDelta is one wheel notch in OS units.
const WheelDelta = 120

// Injector defines the input operations used by the writers.
type Injector interface {
	MoveRel(dx, dy int) error
	ButtonDown(n int) error
	ButtonUp(n int) error
	Wheel(delta int) error
	HWheel(delta int) error
	KeyDown(code keycode.Code) error
	KeyUp(code keycode.Code) error
}
