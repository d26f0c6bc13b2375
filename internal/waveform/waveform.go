// Package waveform generates the normalized position/speed pair a motion
// cycle starts from: y in [0,1] and its time derivative, given elapsed time
// and tempo. Three variants share one capability set so the controller can
// swap between them without special-casing.
package waveform

import (
	"math"

	"ossm-go/errcode"
)

// Kind names a waveform variant, as used on the wire (HTTP/serial/store).
type Kind string

const (
	Sine   Kind = "sine"
	Thrust Kind = "thrust"
	Spline Kind = "spline"
)

// Waveform produces a normalized position and its derivative for a point in
// time, and can invert a position back to the phase that produces it.
type Waveform interface {
	// Evaluate returns y in [0,1] and dy/dt (per second) at elapsedS seconds
	// into the cycle at the given tempo.
	Evaluate(elapsedS, bpm float64) (y, yDot float64)

	// FindXForY returns the phase in [0,1) whose y is nearest to the
	// requested value. Sine and thrust prefer the rising branch on ties;
	// spline takes the lowest-phase table entry.
	FindXForY(y float64) float64
}

// New builds the Waveform named by kind. splinePoints is only consulted for
// Spline and may be nil/empty otherwise.
func New(kind Kind, sharpness float64, splinePoints []float64) (Waveform, error) {
	switch kind {
	case Sine:
		return NewSine(), nil
	case Thrust:
		return NewThrust(sharpness), nil
	case Spline:
		return NewSpline(splinePoints), nil
	default:
		return nil, errcode.New(errcode.ConfigOutOfRange, "waveform.New", "unknown wave_func "+string(kind))
	}
}

// Phase reduces elapsedS*bpm/60 to [0,1), the phase(now) relation that
// anchors the whole controller: phase = ((now-t0)*bpm/60) mod 1.
func Phase(elapsedS, bpm float64) float64 {
	x := elapsedS * bpm / 60
	x -= math.Floor(x)
	if x < 0 {
		x += 1
	}
	return x
}

func phaseOf(elapsedS, bpm float64) float64 { return Phase(elapsedS, bpm) }
