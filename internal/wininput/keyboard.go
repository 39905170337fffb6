//go:build windows

package wininput

import (
	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/lxn/win"
)

// virtualKeys maps logical codes to Windows virtual-key codes.
var virtualKeys = map[keycode.Code]uint16{
	keycode.Left:      win.VK_LEFT,
	keycode.Right:     win.VK_RIGHT,
	keycode.Up:        win.VK_UP,
	keycode.Down:      win.VK_DOWN,
	keycode.Home:      win.VK_HOME,
	keycode.End:       win.VK_END,
	keycode.PageUp:    win.VK_PRIOR,
	keycode.PageDown:  win.VK_NEXT,
	keycode.Enter:     win.VK_RETURN,
	keycode.Escape:    win.VK_ESCAPE,
	keycode.Tab:       win.VK_TAB,
	keycode.Space:     win.VK_SPACE,
	keycode.Backspace: win.VK_BACK,
	keycode.Delete:    win.VK_DELETE,
	keycode.LShift:    win.VK_LSHIFT,
	keycode.RShift:    win.VK_RSHIFT,
	keycode.LCtrl:     win.VK_LCONTROL,
	keycode.RCtrl:     win.VK_RCONTROL,
	keycode.LAlt:      win.VK_LMENU,
	keycode.RAlt:      win.VK_RMENU,
	keycode.LGui:      win.VK_LWIN,
	keycode.RGui:      win.VK_RWIN,
}

// extendedKeys need KEYEVENTF_EXTENDEDKEY so the navigation cluster is not
// read as the numeric keypad.
var extendedKeys = map[keycode.Code]bool{
	keycode.Left:     true,
	keycode.Right:    true,
	keycode.Up:       true,
	keycode.Down:     true,
	keycode.Home:     true,
	keycode.End:      true,
	keycode.PageUp:   true,
	keycode.PageDown: true,
	keycode.Delete:   true,
	keycode.RCtrl:    true,
	keycode.RAlt:     true,
	keycode.LGui:     true,
	keycode.RGui:     true,
}

// KeyDown presses a key. Codes without a virtual key are ignored.
func (w *WinInjector) KeyDown(code keycode.Code) error {
	return sendKey(code, 0)
}

// KeyUp releases a key.
func (w *WinInjector) KeyUp(code keycode.Code) error {
	return sendKey(code, win.KEYEVENTF_KEYUP)
}

// sendKey sends one virtual-key transition.
func sendKey(code keycode.Code, flags uint32) error {
	vk, ok := virtualKey(code)
	if !ok {
		return nil
	}
	if extendedKeys[code] {
		flags |= win.KEYEVENTF_EXTENDEDKEY
	}
	return sendKeyboardInput(win.KEYBDINPUT{WVk: vk, DwFlags: flags})
}

// virtualKey resolves a code; letters map to their ASCII virtual key.
func virtualKey(code keycode.Code) (uint16, bool) {
	if code >= keycode.A && code <= keycode.Z {
		return uint16(code), true
	}
	vk, ok := virtualKeys[code]
	return vk, ok
}
