// Package keycode defines the logical key codes exchanged with clients.
package keycode

import "strings"

// Code identifies a logical key or action.
type Code uint16

// None is the zero code and never matches a real key.
const None Code = 0

// Plain keys forwarded to the host.
const (
	Left Code = iota + 0x0001
	Right
	Up
	Down
	Home
	End
	PageUp
	PageDown
	Enter
	Escape
	Tab
	Space
	Backspace
	Delete
)

// Letter keys A..Z occupy a contiguous block starting at A.
const (
	A Code = 0x0041
	Z Code = 0x005a
)

// Modifier keys.
const (
	LShift Code = iota + 0x0100
	RShift
	LCtrl
	RCtrl
	LAlt
	RAlt
	LGui
	RGui
)

// Orbital mouse actions.
const (
	OMUp Code = iota + 0x0200
	OMDown
	OMLeft
	OMRight
	OMSlow
	OMBtn1
	OMBtn2
	OMBtn3
	OMBtn4
	OMBtn5
	OMBtn6
	OMBtn7
	OMBtn8
	OMWheelUp
	OMWheelDown
	OMWheelLeft
	OMWheelRight
	OMSel1
	OMSel2
	OMSel3
	OMSel4
	OMSel5
	OMSel6
	OMSel7
	OMSel8
	OMBtnSel
	OMDoubleSel
	OMHoldSel
	OMReleaseSel
)

// SelectWord is the default select word trigger.
const SelectWord Code = 0x0300

// LCmd is the macOS name for the left GUI key.
const LCmd = LGui

var names = map[Code]string{
	Left:      "KC_LEFT",
	Right:     "KC_RIGHT",
	Up:        "KC_UP",
	Down:      "KC_DOWN",
	Home:      "KC_HOME",
	End:       "KC_END",
	PageUp:    "KC_PGUP",
	PageDown:  "KC_PGDN",
	Enter:     "KC_ENTER",
	Escape:    "KC_ESC",
	Tab:       "KC_TAB",
	Space:     "KC_SPC",
	Backspace: "KC_BSPC",
	Delete:    "KC_DEL",

	LShift: "KC_LSFT",
	RShift: "KC_RSFT",
	LCtrl:  "KC_LCTL",
	RCtrl:  "KC_RCTL",
	LAlt:   "KC_LALT",
	RAlt:   "KC_RALT",
	LGui:   "KC_LGUI",
	RGui:   "KC_RGUI",

	OMUp:         "OM_U",
	OMDown:       "OM_D",
	OMLeft:       "OM_L",
	OMRight:      "OM_R",
	OMSlow:       "OM_SLOW",
	OMBtn1:       "OM_BTN1",
	OMBtn2:       "OM_BTN2",
	OMBtn3:       "OM_BTN3",
	OMBtn4:       "OM_BTN4",
	OMBtn5:       "OM_BTN5",
	OMBtn6:       "OM_BTN6",
	OMBtn7:       "OM_BTN7",
	OMBtn8:       "OM_BTN8",
	OMWheelUp:    "OM_W_U",
	OMWheelDown:  "OM_W_D",
	OMWheelLeft:  "OM_W_L",
	OMWheelRight: "OM_W_R",
	OMSel1:       "OM_SEL1",
	OMSel2:       "OM_SEL2",
	OMSel3:       "OM_SEL3",
	OMSel4:       "OM_SEL4",
	OMSel5:       "OM_SEL5",
	OMSel6:       "OM_SEL6",
	OMSel7:       "OM_SEL7",
	OMSel8:       "OM_SEL8",
	OMBtnSel:     "OM_BTNS",
	OMDoubleSel:  "OM_DBLS",
	OMHoldSel:    "OM_HLDS",
	OMReleaseSel: "OM_RELS",

	SelectWord: "SELWORD",
}

var byName = func() map[string]Code {
	out := make(map[string]Code, len(names)+int(Z-A)+1)
	for code, name := range names {
		out[name] = code
	}
	for c := A; c <= Z; c++ {
		out["KC_"+string(rune(c))] = c
	}
	// Aliases used by QMK keymaps.
	out["KC_LCMD"] = LGui
	out["KC_LOPT"] = LAlt
	out["KC_RGHT"] = Right
	return out
}()

// Parse resolves a wire name such as "OM_U" or "KC_LEFT".
func Parse(name string) (Code, bool) {
	code, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return code, ok
}

// String returns the wire name of the code.
func (c Code) String() string {
	if c >= A && c <= Z {
		return "KC_" + string(rune(c))
	}
	if name, ok := names[c]; ok {
		return name
	}
	return "KC_UNKNOWN"
}

// IsShift reports whether the code is a shift modifier.
func (c Code) IsShift() bool {
	return c == LShift || c == RShift
}

// IsModifier reports whether the code is any modifier key.
func (c Code) IsModifier() bool {
	return c >= LShift && c <= RGui
}

// Button returns the 1-based mouse button for OMBtn1..OMBtn8.
func Button(c Code) (int, bool) {
	if c < OMBtn1 || c > OMBtn8 {
		return 0, false
	}
	return int(c-OMBtn1) + 1, true
}

// Select returns the 1-based button chosen by OMSel1..OMSel8.
func Select(c Code) (int, bool) {
	if c < OMSel1 || c > OMSel8 {
		return 0, false
	}
	return int(c-OMSel1) + 1, true
}
