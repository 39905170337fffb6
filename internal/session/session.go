// Package session holds runtime state for the active controller.
package session

import (
	"sync"

	"github.com/frudas24/orbitkeys/internal/hostos"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool   `json:"authenticated"`
	InputEnabled  bool   `json:"inputEnabled"`
	HostOS        string `json:"hostOS"`
	MacOverride   *bool  `json:"macOverride"`
	ControlID     string `json:"controlId,omitempty"`
}

// Session holds runtime state for the active controller.
type Session struct {
	mu            sync.RWMutex
	password      string
	authenticated bool
	inputEnabled  bool
	controlID     string
	hosts         *hostos.Detector
}

// New returns an initialized session with the given password. A nil detector
// resolves the host OS automatically.
func New(password string, hosts *hostos.Detector) *Session {
	if hosts == nil {
		hosts = hostos.NewDetector(hostos.Auto)
	}
	return &Session{
		password:     password,
		inputEnabled: true,
		hosts:        hosts,
	}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != "" && pass == s.password {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetMacOverride forces macOS hotkeys on or off; nil returns to the configured mode.
func (s *Session) SetMacOverride(mac *bool) {
	s.hosts.SetOverride(mac)
}

// IsMac reports whether the selector should use macOS hotkeys.
func (s *Session) IsMac() bool {
	return s.hosts.IsMac()
}

// SetControlID records the id of the connected control client; empty clears it.
func (s *Session) SetControlID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlID = id
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.authenticated,
		InputEnabled:  s.inputEnabled,
		HostOS:        string(s.hosts.Mode()),
		MacOverride:   s.hosts.Override(),
		ControlID:     s.controlID,
	}
}
