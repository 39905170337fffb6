package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frudas24/orbitkeys/internal/keycode"
	"github.com/frudas24/orbitkeys/internal/orbital"
	"github.com/frudas24/orbitkeys/internal/selectword"
)

// Tuning is the parsed motion and selection configuration.
type Tuning struct {
	Orbital    orbital.Config
	SelectWord selectword.Options
}

// DefaultTuning returns the compiled-in tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Orbital: orbital.DefaultConfig(),
		SelectWord: selectword.Options{
			Trigger: keycode.SelectWord,
			Timeout: selectword.DefaultTimeout,
		},
	}
}

// tuningFile mirrors the YAML layout. Pointers tell unset fields from zeros.
type tuningFile struct {
	Orbital struct {
		Radius             *int     `yaml:"radius"`
		SpeedCurve         []int    `yaml:"speed_curve"`
		SlowMoveFactor     *float64 `yaml:"slow_move_factor"`
		SlowTurnFactor     *float64 `yaml:"slow_turn_factor"`
		WheelSpeed         *float64 `yaml:"wheel_speed"`
		DoubleClickDelayMs *int     `yaml:"double_click_delay_ms"`
	} `yaml:"orbital"`
	SelectWord struct {
		TimeoutMs *int   `yaml:"timeout_ms"`
		Trigger   string `yaml:"trigger"`
	} `yaml:"select_word"`
}

// LoadTuning reads the tuning file at path. A missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultTuning(), nil
		}
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes YAML tuning on top of the defaults. Unknown keys are rejected.
func ParseTuning(data []byte) (Tuning, error) {
	var raw tuningFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}

	t := DefaultTuning()
	o := raw.Orbital

	if o.Radius != nil {
		if *o.Radius < 0 || *o.Radius > orbital.MaxRadius {
			return Tuning{}, fmt.Errorf("orbital.radius must be 0-%d", orbital.MaxRadius)
		}
		t.Orbital.Radius = uint8(*o.Radius)
	}
	if o.SpeedCurve != nil {
		curve, err := ParseSpeedCurve(o.SpeedCurve)
		if err != nil {
			return Tuning{}, fmt.Errorf("orbital.speed_curve: %w", err)
		}
		t.Orbital.SpeedCurve = curve
	}
	if o.SlowMoveFactor != nil {
		if err := checkFraction(*o.SlowMoveFactor, 0, 1, true); err != nil {
			return Tuning{}, fmt.Errorf("orbital.slow_move_factor %w", err)
		}
		t.Orbital.SlowMoveFactor = orbital.Q88(*o.SlowMoveFactor)
	}
	if o.SlowTurnFactor != nil {
		if err := checkFraction(*o.SlowTurnFactor, 0, 1, true); err != nil {
			return Tuning{}, fmt.Errorf("orbital.slow_turn_factor %w", err)
		}
		t.Orbital.SlowTurnFactor = orbital.Q88(*o.SlowTurnFactor)
	}
	if o.WheelSpeed != nil {
		if err := checkFraction(*o.WheelSpeed, 0, 4, false); err != nil {
			return Tuning{}, fmt.Errorf("orbital.wheel_speed %w", err)
		}
		t.Orbital.WheelSpeed = orbital.Q44(*o.WheelSpeed)
	}
	if o.DoubleClickDelayMs != nil {
		if *o.DoubleClickDelayMs < 0 || *o.DoubleClickDelayMs > math.MaxUint16 {
			return Tuning{}, fmt.Errorf("orbital.double_click_delay_ms must be 0-%d", math.MaxUint16)
		}
		t.Orbital.DoubleClickDelayMs = uint16(*o.DoubleClickDelayMs)
	}

	s := raw.SelectWord
	if s.TimeoutMs != nil {
		if *s.TimeoutMs < 0 {
			return Tuning{}, errors.New("select_word.timeout_ms must be >= 0")
		}
		t.SelectWord.Timeout = time.Duration(*s.TimeoutMs) * time.Millisecond
	}
	if s.Trigger != "" {
		code, ok := keycode.Parse(s.Trigger)
		if !ok {
			return Tuning{}, fmt.Errorf("select_word.trigger: unknown key %q", s.Trigger)
		}
		t.SelectWord.Trigger = code
	}

	return t, nil
}

// ParseSpeedCurve validates a 16-sample curve of byte values.
func ParseSpeedCurve(values []int) (orbital.SpeedCurve, error) {
	var curve orbital.SpeedCurve
	if len(values) != orbital.CurveLen {
		return curve, fmt.Errorf("want %d samples, got %d", orbital.CurveLen, len(values))
	}
	for i, v := range values {
		if v < 0 || v > 255 {
			return curve, fmt.Errorf("sample %d out of range 0-255: %d", i, v)
		}
		curve[i] = uint8(v)
	}
	return curve, nil
}

// checkFraction bounds v to [lo, hi] or [lo, hi).
func checkFraction(v, lo, hi float64, inclusive bool) error {
	if math.IsNaN(v) || v < lo || v > hi || (!inclusive && v == hi) {
		if inclusive {
			return fmt.Errorf("must be in [%g, %g]", lo, hi)
		}
		return fmt.Errorf("must be in [%g, %g)", lo, hi)
	}
	return nil
}
