package waveform

import "ossm-go/internal/mathx"

// ThrustWave is a smootherstep rise-and-fall shape. Sharpness controls how
// much of the cycle is spent rising versus falling.
type ThrustWave struct {
	r float64 // clamped sharpness, [0.01, 0.99]
}

func NewThrust(sharpness float64) ThrustWave {
	return ThrustWave{r: mathx.Clamp(sharpness, 0.01, 0.99)}
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func smootherstepDeriv(t float64) float64 {
	return 30 * t * t * (t - 1) * (t - 1)
}

func (w ThrustWave) yAtPhase(phase float64) (y, dydphase float64) {
	r := w.r
	if phase < r {
		t := phase / r
		return smootherstep(t), smootherstepDeriv(t) / r
	}
	t := (phase - r) / (1 - r)
	return 1 - smootherstep(t), -smootherstepDeriv(t) / (1 - r)
}

func (w ThrustWave) Evaluate(elapsedS, bpm float64) (float64, float64) {
	phase := phaseOf(elapsedS, bpm)
	y, dydphase := w.yAtPhase(phase)
	return y, dydphase * bpm / 60
}

// FindXForY bisects the rising branch, phase in [0, r], where yAtPhase is
// monotonically increasing; this is also the rule that breaks ties toward
// the rising branch. 20 iterations comfortably clears the 0.001 tolerance
// on y.
func (w ThrustWave) FindXForY(target float64) float64 {
	lo, hi := 0.0, w.r
	for i := 0; i < 20; i++ {
		mid := (lo + hi) / 2
		y, _ := w.yAtPhase(mid)
		if y < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
