package waveform

import (
	"math"

	"ossm-go/internal/mathx"
)

// SineWave is y = sin(2*pi*phase)/2 + 0.5.
type SineWave struct{}

func NewSine() SineWave { return SineWave{} }

func (SineWave) yAtPhase(phase float64) (y, dydphase float64) {
	y = math.Sin(2*math.Pi*phase)/2 + 0.5
	dydphase = math.Pi * math.Cos(2*math.Pi*phase)
	return
}

func (s SineWave) Evaluate(elapsedS, bpm float64) (float64, float64) {
	phase := phaseOf(elapsedS, bpm)
	y, dydphase := s.yAtPhase(phase)
	return y, dydphase * bpm / 60
}

func (SineWave) FindXForY(y float64) float64 {
	v := mathx.Clamp(2*y-1, -1, 1)
	phase := math.Asin(v) / (2 * math.Pi)
	if phase < 0 {
		phase += 1
	}
	return phase
}
