//go:build windows

package wininput

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
)

// WinInjector injects mouse and keyboard input using WinAPI.
type WinInjector struct{}

// NewInjector returns a Windows input injector.
func NewInjector() (Injector, error) {
	return &WinInjector{}, nil
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("SendInput mouse %#x: error %d", flags, win.GetLastError())
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event. The keyboard
// struct is written into a mouse-sized buffer because SendInput expects
// cbSize to be the size of the full INPUT union.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	var input win.MOUSE_INPUT
	kb := (*win.KEYBD_INPUT)(unsafe.Pointer(&input))
	kb.Type = win.INPUT_KEYBOARD
	kb.Ki = key
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("SendInput key %#x: error %d", key.WVk, win.GetLastError())
	}
	return nil
}
