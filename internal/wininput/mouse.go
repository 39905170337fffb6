//go:build windows

package wininput

import "github.com/lxn/win"

const (
	mouseeventfXDown  = 0x0080
	mouseeventfXUp    = 0x0100
	mouseeventfHWheel = 0x1000
	xButton1          = 0x0001
	xButton2          = 0x0002
)

// MoveRel moves the cursor by a relative offset.
func (w *WinInjector) MoveRel(dx, dy int) error {
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(dx), int32(dy), 0)
}

// ButtonDown presses mouse button n (1 left, 2 right, 3 middle, 4-5 X buttons).
func (w *WinInjector) ButtonDown(n int) error {
	flags, data, ok := buttonFlags(n, true)
	if !ok {
		return nil
	}
	return sendMouseInput(flags, 0, 0, data)
}

// ButtonUp releases mouse button n.
func (w *WinInjector) ButtonUp(n int) error {
	flags, data, ok := buttonFlags(n, false)
	if !ok {
		return nil
	}
	return sendMouseInput(flags, 0, 0, data)
}

// Wheel scrolls vertically; positive values scroll up.
func (w *WinInjector) Wheel(delta int) error {
	return sendMouseInput(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(int32(delta)))
}

// HWheel scrolls horizontally; positive values scroll right.
func (w *WinInjector) HWheel(delta int) error {
	return sendMouseInput(mouseeventfHWheel, 0, 0, uint32(int32(delta)))
}

// buttonFlags maps a 1-based button to SendInput flags. Buttons 6-8 have no
// Windows equivalent and report ok=false.
func buttonFlags(n int, down bool) (flags uint32, data uint32, ok bool) {
	switch n {
	case 1:
		if down {
			return win.MOUSEEVENTF_LEFTDOWN, 0, true
		}
		return win.MOUSEEVENTF_LEFTUP, 0, true
	case 2:
		if down {
			return win.MOUSEEVENTF_RIGHTDOWN, 0, true
		}
		return win.MOUSEEVENTF_RIGHTUP, 0, true
	case 3:
		if down {
			return win.MOUSEEVENTF_MIDDLEDOWN, 0, true
		}
		return win.MOUSEEVENTF_MIDDLEUP, 0, true
	case 4, 5:
		data = xButton1
		if n == 5 {
			data = xButton2
		}
		if down {
			return mouseeventfXDown, data, true
		}
		return mouseeventfXUp, data, true
	default:
		return 0, 0, false
	}
}
