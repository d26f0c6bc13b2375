// Package shaper applies depth windowing, top/bottom anchoring, and
// polarity reversal to a waveform's (y, yDot), with rate-limited
// transitions so parameter changes never inject step discontinuities.
package shaper

import "ossm-go/internal/mathx"

const (
	depthSlewPerSec    = 0.1
	reversalSlewPerSec = 0.5
	deadband           = 0.01
)

// Shaper holds the live-shaping state. Zero value is not ready to use; call
// New.
type Shaper struct {
	targetDepth  float64
	currentDepth float64
	depthTop     bool

	targetReversed  float64 // 0 or 1
	currentReversal float64

	transitioning bool
}

// New returns a Shaper at full depth, bottom-anchored (depthTop false), not
// reversed.
func New() *Shaper {
	return &Shaper{targetDepth: 1, currentDepth: 1}
}

// Clone returns an independent copy, for computing a state snapshot without
// mutating the live shaper.
func (s *Shaper) Clone() *Shaper {
	cp := *s
	return &cp
}

func (s *Shaper) Depth() float64      { return s.currentDepth }
func (s *Shaper) Reversal() float64   { return s.currentReversal }
func (s *Shaper) DepthTop() bool      { return s.depthTop }
func (s *Shaper) Transitioning() bool { return s.transitioning }

// ForceTransitioning marks the shaper as mid-transition without touching
// current/target values, used when a caller (homing) must force a safe
// migration rather than trust an Unshape result.
func (s *Shaper) ForceTransitioning() { s.transitioning = true }

// SetParams overwrites the shaping targets. If depth or reversed differ
// from their current values beyond the deadband, a transition starts.
func (s *Shaper) SetParams(depth float64, depthTop bool, reversed bool) {
	s.targetDepth = depth
	s.depthTop = depthTop
	target := 0.0
	if reversed {
		target = 1.0
	}
	s.targetReversed = target

	if mathx.Abs(s.currentDepth-s.targetDepth) > deadband ||
		mathx.Abs(s.currentReversal-s.targetReversed) > deadband {
		s.transitioning = true
	}
}

// Shape advances current_depth/current_reversal toward their targets by
// slew*dt, then applies the reversal blend and depth window to (yIn, yDotIn).
func (s *Shaper) Shape(yIn, yDotIn, dt float64) (yOut, yDotOut float64) {
	s.advance(dt)

	r := s.currentReversal
	d := s.currentDepth

	y1 := yIn*(1-2*r) + r
	yDot1 := yDotIn * (1 - 2*r)

	if s.depthTop {
		return y1 * d, yDot1 * d
	}
	return y1*d + (1 - d), yDot1 * d
}

// Unshape undoes depth then reversal, returning the y that would have
// produced yShaped. It only succeeds when the shaper has settled
// (!Transitioning) and the map is non-degenerate.
func (s *Shaper) Unshape(yShaped float64) (y float64, ok bool) {
	if s.transitioning {
		return 0, false
	}
	d := s.currentDepth
	r := s.currentReversal
	if d < deadband || mathx.Abs(1-2*r) < deadband {
		return 0, false
	}

	var y1 float64
	if s.depthTop {
		y1 = yShaped / d
	} else {
		y1 = (yShaped - (1 - d)) / d
	}
	yIn := (y1 - r) / (1 - 2*r)
	return mathx.Clamp(yIn, 0, 1), true
}

func (s *Shaper) advance(dt float64) {
	s.currentDepth = slewToward(s.currentDepth, s.targetDepth, depthSlewPerSec*dt)
	s.currentReversal = slewToward(s.currentReversal, s.targetReversed, reversalSlewPerSec*dt)

	if mathx.Abs(s.currentDepth-s.targetDepth) <= deadband &&
		mathx.Abs(s.currentReversal-s.targetReversed) <= deadband {
		s.transitioning = false
	}
}

func slewToward(cur, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = -maxDelta
	}
	switch {
	case cur < target:
		cur += maxDelta
		if cur > target {
			cur = target
		}
	case cur > target:
		cur -= maxDelta
		if cur < target {
			cur = target
		}
	}
	return cur
}
