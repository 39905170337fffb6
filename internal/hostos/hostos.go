// Package hostos decides which hotkey style the host OS expects.
package hostos

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// Mode names a host OS setting.
type Mode string

const (
	// Auto resolves the host from the running platform.
	Auto Mode = "auto"
	// Mac forces macOS hotkeys.
	Mac Mode = "mac"
	// Windows forces Windows hotkeys.
	Windows Mode = "windows"
	// Linux forces Linux hotkeys, which match Windows.
	Linux Mode = "linux"
)

// ParseMode validates a configured mode. Empty means Auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Auto, nil
	case Auto, Mac, Windows, Linux:
		return m, nil
	case "macos", "darwin":
		return Mac, nil
	default:
		return "", fmt.Errorf("unknown host os %q (want auto, mac, windows or linux)", s)
	}
}

// Resolve maps Auto to the platform named by goos.
func (m Mode) Resolve(goos string) Mode {
	if m != Auto && m != "" {
		return m
	}
	switch goos {
	case "darwin", "ios":
		return Mac
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// Detector answers the use-Mac-hotkeys question with an optional runtime override.
type Detector struct {
	mu       sync.RWMutex
	base     Mode
	goos     string
	override *bool
}

// NewDetector returns a detector for the configured mode on this platform.
func NewDetector(mode Mode) *Detector {
	return &Detector{base: mode, goos: runtime.GOOS}
}

// NewDetectorFor returns a detector that resolves Auto against goos.
func NewDetectorFor(mode Mode, goos string) *Detector {
	return &Detector{base: mode, goos: goos}
}

// IsMac reports whether macOS hotkeys should be used.
func (d *Detector) IsMac() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.override != nil {
		return *d.override
	}
	return d.base.Resolve(d.goos) == Mac
}

// SetOverride forces the answer; nil restores the configured mode.
func (d *Detector) SetOverride(mac *bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mac == nil {
		d.override = nil
		return
	}
	v := *mac
	d.override = &v
}

// Override returns the current override, or nil when none is set.
func (d *Detector) Override() *bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.override == nil {
		return nil
	}
	v := *d.override
	return &v
}

// Mode returns the effective mode after overrides.
func (d *Detector) Mode() Mode {
	if d.IsMac() {
		return Mac
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	resolved := d.base.Resolve(d.goos)
	if resolved == Mac {
		// Overridden away from mac; report the platform default instead.
		if d.goos == "windows" {
			return Windows
		}
		return Linux
	}
	return resolved
}
