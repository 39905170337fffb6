// Package orbital implements heading-based mouse emulation driven by key holds.
package orbital

import "math"

// CurveLen is the number of speed curve samples.
const CurveLen = 16

// SpeedCurve samples forward speed, in pixels per tick, at t = n*256 ms.
type SpeedCurve [CurveLen]uint8

// TickMs is the nominal task period.
const TickMs = 16

// MaxRadius bounds the orbit radius so radius*256 fits the Q8.8 trig range.
const MaxRadius = 63

const (
	defaultRadius           = 36
	defaultSlowMoveFactor   = 0.333
	defaultSlowTurnFactor   = 0.5
	defaultWheelSpeed       = 0.2
	defaultDoubleClickDelay = 50
)

// DefaultSpeedCurve ramps from a slow start to full speed in about 1.3 s.
var DefaultSpeedCurve = SpeedCurve{24, 24, 24, 32, 58, 66, 66, 66, 66, 66, 66, 66, 66, 66, 66, 66}

// Config holds the static motion parameters.
type Config struct {
	// Radius of the turning orbit in pixels, at most MaxRadius.
	Radius uint8
	// SpeedCurve is the default curve restored by SetSpeedCurve(nil).
	SpeedCurve SpeedCurve
	// SlowMoveFactor scales forward speed in slow mode (Q8.8, [0, 256]).
	SlowMoveFactor int16
	// SlowTurnFactor scales the orbit radius in slow mode (Q8.8, [0, 256]).
	SlowTurnFactor int16
	// WheelSpeed is emitted per tick while a wheel key is held (Q4.4, [0, 64)).
	WheelSpeed int8
	// DoubleClickDelayMs separates the two clicks of a double click.
	DoubleClickDelayMs uint16
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		Radius:             defaultRadius,
		SpeedCurve:         DefaultSpeedCurve,
		SlowMoveFactor:     Q88(defaultSlowMoveFactor),
		SlowTurnFactor:     Q88(defaultSlowTurnFactor),
		WheelSpeed:         Q44(defaultWheelSpeed),
		DoubleClickDelayMs: defaultDoubleClickDelay,
	}
}

// Q88 converts a fraction in [0, 1] to Q8.8, truncating like the firmware cast.
func Q88(f float64) int16 {
	return int16(clampFloat(f, 0, 1) * 256)
}

// Q44 converts a fraction in [0, 4) to Q4.4, truncating like the firmware cast.
func Q44(f float64) int8 {
	return int8(clampFloat(f, 0, 63.0/16) * 16)
}

// normalize clamps out-of-range values instead of rejecting them.
func (c Config) normalize() Config {
	if c.Radius > MaxRadius {
		c.Radius = MaxRadius
	}
	c.SlowMoveFactor = int16(clampInt(int(c.SlowMoveFactor), 0, 256))
	c.SlowTurnFactor = int16(clampInt(int(c.SlowTurnFactor), 0, 256))
	if c.WheelSpeed < 0 {
		c.WheelSpeed = 0
	}
	return c
}

// clampFloat bounds v to [lo, hi], mapping NaN to lo.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
