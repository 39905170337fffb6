package hostos

import "testing"

// TestParseMode_Valid verifies accepted spellings.
func TestParseMode_Valid(t *testing.T) {
	cases := map[string]Mode{
		"":        Auto,
		"AUTO":    Auto,
		" mac ":   Mac,
		"darwin":  Mac,
		"windows": Windows,
		"linux":   Linux,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
}

// TestParseMode_Invalid verifies unknown modes are rejected.
func TestParseMode_Invalid(t *testing.T) {
	if _, err := ParseMode("beos"); err == nil {
		t.Fatalf("expected error")
	}
}

// TestResolve_Auto verifies auto follows the platform.
func TestResolve_Auto(t *testing.T) {
	if Auto.Resolve("darwin") != Mac {
		t.Fatalf("expected darwin to resolve to mac")
	}
	if Auto.Resolve("windows") != Windows {
		t.Fatalf("expected windows to resolve to windows")
	}
	if Auto.Resolve("freebsd") != Linux {
		t.Fatalf("expected other platforms to resolve to linux")
	}
	if Mac.Resolve("windows") != Mac {
		t.Fatalf("expected explicit mode to win")
	}
}

// TestDetector_Override verifies the runtime override and its reset.
func TestDetector_Override(t *testing.T) {
	d := NewDetectorFor(Auto, "windows")
	if d.IsMac() {
		t.Fatalf("expected windows hotkeys")
	}

	on := true
	d.SetOverride(&on)
	on = false
	if !d.IsMac() || d.Mode() != Mac {
		t.Fatalf("expected override to force mac")
	}
	if got := d.Override(); got == nil || !*got {
		t.Fatalf("expected override true, got %v", got)
	}

	d.SetOverride(nil)
	if d.IsMac() || d.Override() != nil {
		t.Fatalf("expected override cleared")
	}
}

// TestDetector_OverrideAwayFromMac verifies a false override on a mac host.
func TestDetector_OverrideAwayFromMac(t *testing.T) {
	d := NewDetectorFor(Mac, "darwin")
	off := false
	d.SetOverride(&off)
	if d.IsMac() {
		t.Fatalf("expected override to disable mac hotkeys")
	}
	if d.Mode() != Linux {
		t.Fatalf("expected linux, got %s", d.Mode())
	}
}
