package waveform

import "ossm-go/internal/mathx"

// splineResolution is the number of pre-sampled (y, dy/dphase) table entries.
const splineResolution = 1500

// SplineWave pre-samples a periodic Catmull-Rom spline through the control
// points into a lookup table, so Evaluate and FindXForY are both O(1)/O(R).
type SplineWave struct {
	ys      [splineResolution]float64
	dydx    [splineResolution]float64
	nPoints int
}

// NewSpline builds the lookup table from points, each expected in [0,1].
// Zero points yields a constant 0.5; one point yields a constant at that
// value; both report zero speed.
func NewSpline(points []float64) *SplineWave {
	w := &SplineWave{nPoints: len(points)}
	n := len(points)

	switch n {
	case 0:
		for i := range w.ys {
			w.ys[i] = 0.5
		}
		return w
	case 1:
		for i := range w.ys {
			w.ys[i] = points[0]
		}
		return w
	}

	tangent := func(i int) float64 {
		next := points[(i+1)%n]
		prev := points[(i-1+n)%n]
		return (next - prev) * float64(n) / 2
	}

	segW := 1.0 / float64(n)
	for i := 0; i < splineResolution; i++ {
		x := float64(i) / float64(splineResolution-1)
		k := int(x / segW)
		if k > n-1 {
			k = n - 1
		}
		u := (x - float64(k)*segW) / segW
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
		k1 := (k + 1) % n

		p0, p1 := points[k], points[k1]
		m0, m1 := tangent(k)*segW, tangent(k1)*segW

		u2 := u * u
		u3 := u2 * u
		h00 := 2*u3 - 3*u2 + 1
		h10 := u3 - 2*u2 + u
		h01 := -2*u3 + 3*u2
		h11 := u3 - u2

		dh00 := 6*u2 - 6*u
		dh10 := 3*u2 - 4*u + 1
		dh01 := -6*u2 + 6*u
		dh11 := 3*u2 - 2*u

		w.ys[i] = h00*p0 + h10*m0 + h01*p1 + h11*m1
		dydu := dh00*p0 + dh10*m0 + dh01*p1 + dh11*m1
		w.dydx[i] = dydu / segW
	}

	min, max := w.ys[0], w.ys[0]
	for _, y := range w.ys {
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	rangeY := max - min
	if rangeY > 1e-6 {
		for i := range w.ys {
			w.ys[i] = (w.ys[i] - min) / rangeY
			w.dydx[i] /= rangeY
		}
	} else {
		for i := range w.ys {
			w.ys[i] = 0.5
			w.dydx[i] = 0
		}
	}
	return w
}

func (w *SplineWave) yAtPhase(phase float64) (y, dydphase float64) {
	idx := phase * float64(splineResolution-1)
	i0 := int(idx)
	if i0 < 0 {
		i0 = 0
	}
	if i0 > splineResolution-1 {
		i0 = splineResolution - 1
	}
	i1 := i0 + 1
	if i1 > splineResolution-1 {
		i1 = splineResolution - 1
	}
	frac := idx - float64(i0)
	y = w.ys[i0] + (w.ys[i1]-w.ys[i0])*frac
	dydphase = w.dydx[i0] + (w.dydx[i1]-w.dydx[i0])*frac
	return
}

func (w *SplineWave) Evaluate(elapsedS, bpm float64) (float64, float64) {
	phase := phaseOf(elapsedS, bpm)
	y, dydphase := w.yAtPhase(phase)
	return y, dydphase * bpm / 60
}

// FindXForY does a linear scan of the table for the closest y; on ties the
// first (lowest-phase) entry wins, whether or not it lies on a rising
// segment.
func (w *SplineWave) FindXForY(target float64) float64 {
	bestI := 0
	bestD := mathx.Abs(w.ys[0] - target)
	for i := 1; i < splineResolution; i++ {
		d := mathx.Abs(w.ys[i] - target)
		if d < bestD {
			bestD = d
			bestI = i
		}
	}
	return float64(bestI) / float64(splineResolution-1)
}
