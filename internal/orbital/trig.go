// Package orbital implements heading-based mouse emulation driven by key holds.
package orbital

// Phases divide one full turn; headings and trig phases are taken mod Phases.
const (
	Phases    = 64
	phaseMask = Phases - 1
	// quarterTurn is the phase offset between sine and cosine.
	quarterTurn = Phases / 4
)

// sinCoeffs are the odd Taylor terms of sin(πu/2) for u in [0, 1], in Q2.30,
// lowest order first. Truncating after u^11 leaves an error below 1e-7.
var sinCoeffs = [...]int64{
	1686629713,
	-693598668,
	85569306,
	-5026995,
	172272,
	-3864,
}

// scaledSin returns amplitude*sin(2π*phase/64) as a Q8.8 value.
// Amplitude is an integer in [0, 255]. The result is the exact value rounded
// to the nearest Q8.8 step, so it stays within ±0.1% of amplitude or half an
// LSB, whichever is larger.
//
// Bit 5 of the phase selects the half turn (negative when set). Inside a half
// turn the phase folds to a triangle wave s in [0, 16] where 16 is the peak,
// and u = s/16 feeds the quarter-wave polynomial.
func scaledSin(phase uint8, amplitude uint16) int32 {
	phase &= phaseMask
	x := int64(phase&31) - 16
	if x < 0 {
		x = -x
	}
	s := 16 - x

	u := s << 26 // Q2.30, 1<<30 at the peak.
	u2 := (u * u) >> 30
	acc := sinCoeffs[len(sinCoeffs)-1]
	for i := len(sinCoeffs) - 2; i >= 0; i-- {
		acc = sinCoeffs[i] + (acc*u2)>>30
	}
	y := (acc * u) >> 30
	out := int32((int64(amplitude)*y + 1<<21) >> 22)

	if phase&32 != 0 {
		return -out
	}
	return out
}

// scaledCos returns amplitude*cos(2π*phase/64) as a Q8.8 value.
func scaledCos(phase uint8, amplitude uint16) int32 {
	return scaledSin(phase+quarterTurn, amplitude)
}

// heading returns the Y-up unit direction of angle scaled by amplitude, Q8.8.
// Angle 0 points up and angles grow counterclockwise, so 16 points left.
func heading(angle uint8, amplitude uint16) (x, y int32) {
	return -scaledSin(angle, amplitude), scaledCos(angle, amplitude)
}
