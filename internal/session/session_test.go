package session

import (
	"testing"

	"github.com/frudas24/orbitkeys/internal/hostos"
)

// TestAuthenticate_Success verifies successful authentication.
func TestAuthenticate_Success(t *testing.T) {
	s := New("secret", nil)
	if !s.Authenticate("secret") {
		t.Fatalf("expected authentication to succeed")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated state")
	}
}

// TestAuthenticate_Fail verifies failed authentication.
func TestAuthenticate_Fail(t *testing.T) {
	s := New("secret", nil)
	if s.Authenticate("nope") {
		t.Fatalf("expected authentication to fail")
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestAuthenticate_EmptyPassword verifies an empty password never matches.
func TestAuthenticate_EmptyPassword(t *testing.T) {
	s := New("", nil)
	if s.Authenticate("") {
		t.Fatalf("expected empty password to fail")
	}
}

// TestLogout verifies logout clears auth state.
func TestLogout(t *testing.T) {
	s := New("secret", nil)
	s.Authenticate("secret")
	s.Logout()
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestInputEnabled_Toggle verifies input enabled toggle.
func TestInputEnabled_Toggle(t *testing.T) {
	s := New("secret", nil)
	s.SetInputEnabled(false)
	if s.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	s.SetInputEnabled(true)
	if !s.InputEnabled() {
		t.Fatalf("expected input enabled")
	}
}

// TestMacOverride verifies the override reaches the detector.
func TestMacOverride(t *testing.T) {
	s := New("secret", hostos.NewDetectorFor(hostos.Windows, "windows"))
	if s.IsMac() {
		t.Fatalf("expected windows hotkeys")
	}
	on := true
	s.SetMacOverride(&on)
	if !s.IsMac() {
		t.Fatalf("expected mac hotkeys")
	}
	s.SetMacOverride(nil)
	if s.IsMac() {
		t.Fatalf("expected override cleared")
	}
}

// TestSnapshot verifies snapshot content.
func TestSnapshot(t *testing.T) {
	s := New("secret", hostos.NewDetectorFor(hostos.Auto, "linux"))
	s.Authenticate("secret")
	s.SetInputEnabled(false)
	s.SetControlID("abc")
	snap := s.Snapshot()
	if !snap.Authenticated || snap.InputEnabled || snap.HostOS != "linux" || snap.ControlID != "abc" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.MacOverride != nil {
		t.Fatalf("expected no override, got %v", *snap.MacOverride)
	}
}
