package wininput

import (
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/orbital"
)

// errorLog logs injector errors, reporting ErrUnsupported only once.
type errorLog struct {
	mu          sync.Mutex
	unsupported bool
}

// report logs err for op unless it is a repeat of ErrUnsupported.
func (l *errorLog) report(op string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrUnsupported) {
		l.mu.Lock()
		seen := l.unsupported
		l.unsupported = true
		l.mu.Unlock()
		if seen {
			return
		}
	}
	log.Printf("wininput: %s: %v", op, err)
}

// ReportWriter applies orbital pointer reports to an Injector.
type ReportWriter struct {
	inj     Injector
	errs    errorLog
	buttons uint8
	wheelV  int
	wheelH  int
}

// NewReportWriter returns a writer with no buttons pressed.
func NewReportWriter(inj Injector) *ReportWriter {
	return &ReportWriter{inj: inj}
}

// SendReport diffs the button bits against the previous report, then applies
// motion and wheel deltas. Wheel values are Q4.4 notches; the fractional part
// carries over to the next report.
func (w *ReportWriter) SendReport(r orbital.Report) {
	changed := w.buttons ^ r.Buttons
	for n := 1; n <= 8; n++ {
		bit := uint8(1) << (n - 1)
		if changed&bit == 0 {
			continue
		}
		if r.Buttons&bit != 0 {
			w.errs.report("button down", w.inj.ButtonDown(n))
		} else {
			w.errs.report("button up", w.inj.ButtonUp(n))
		}
	}
	w.buttons = r.Buttons

	if r.X != 0 || r.Y != 0 {
		w.errs.report("move", w.inj.MoveRel(int(r.X), int(r.Y)))
	}
	if r.V != 0 {
		if d := scaleWheel(&w.wheelV, r.V); d != 0 {
			w.errs.report("wheel", w.inj.Wheel(d))
		}
	}
	if r.H != 0 {
		if d := scaleWheel(&w.wheelH, r.H); d != 0 {
			w.errs.report("hwheel", w.inj.HWheel(d))
		}
	}
}

// Release lifts every button the writer has pressed.
func (w *ReportWriter) Release() {
	w.SendReport(orbital.Report{})
	w.wheelV, w.wheelH = 0, 0
}

// scaleWheel converts a Q4.4 delta to WheelDelta units, keeping the remainder
// in acc so slow scrolling still adds up.
func scaleWheel(acc *int, q44 int8) int {
	*acc += int(q44) * WheelDelta
	out := *acc / 16
	*acc -= out * 16
	return out
}

// KeyWriter presses and releases keys on an Injector and tracks which keys
// are held so a release of an idle key is a no-op.
type KeyWriter struct {
	inj  Injector
	errs errorLog
	held map[keycode.Code]bool
}

// NewKeyWriter returns a writer with no keys held.
func NewKeyWriter(inj Injector) *KeyWriter {
	return &KeyWriter{inj: inj, held: make(map[keycode.Code]bool)}
}

// Register presses code unless it is already held.
func (w *KeyWriter) Register(code keycode.Code) {
	if w.held[code] {
		return
	}
	w.held[code] = true
	w.errs.report("key down "+code.String(), w.inj.KeyDown(code))
}

// Unregister releases code if it is held.
func (w *KeyWriter) Unregister(code keycode.Code) {
	if !w.held[code] {
		return
	}
	delete(w.held, code)
	w.errs.report("key up "+code.String(), w.inj.KeyUp(code))
}

// Held reports whether code is currently pressed.
func (w *KeyWriter) Held(code keycode.Code) bool {
	return w.held[code]
}

// ReleaseAll releases every held key in code order.
func (w *KeyWriter) ReleaseAll() {
	codes := make([]keycode.Code, 0, len(w.held))
	for code := range w.held {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		w.Unregister(code)
	}
}
