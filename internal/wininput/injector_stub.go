//go:build !windows

package wininput

import "github.com/frudas24/orbitkeys/internal/keycode"

// NoopInjector is a placeholder injector for non-Windows builds.
type NoopInjector struct{}

// NewInjector returns a non-functional injector on non-Windows platforms.
func NewInjector() (Injector, error) {
	return &NoopInjector{}, ErrUnsupported
}

// MoveRel returns ErrUnsupported.
func (n *NoopInjector) MoveRel(dx, dy int) error {
	_ = dx
	_ = dy
	return ErrUnsupported
}

// ButtonDown returns ErrUnsupported.
func (n *NoopInjector) ButtonDown(button int) error {
	_ = button
	return ErrUnsupported
}

// ButtonUp returns ErrUnsupported.
func (n *NoopInjector) ButtonUp(button int) error {
	_ = button
	return ErrUnsupported
}

// Wheel returns ErrUnsupported.
func (n *NoopInjector) Wheel(delta int) error {
	_ = delta
	return ErrUnsupported
}

// HWheel returns ErrUnsupported.
func (n *NoopInjector) HWheel(delta int) error {
	_ = delta
	return ErrUnsupported
}

// KeyDown returns ErrUnsupported.
func (n *NoopInjector) KeyDown(code keycode.Code) error {
	_ = code
	return ErrUnsupported
}

// KeyUp returns ErrUnsupported.
func (n *NoopInjector) KeyUp(code keycode.Code) error {
	_ = code
	return ErrUnsupported
}
