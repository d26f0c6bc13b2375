package shaper

import "testing"

func within(got, want, tol float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestDefaultPassesThrough(t *testing.T) {
	s := New()
	y, yDot := s.Shape(0.3, 1.0, 0.01)
	if !within(y, 0.3, 1e-9) {
		t.Errorf("default shaper should pass y through, got %v", y)
	}
	if !within(yDot, 1.0, 1e-9) {
		t.Errorf("default shaper should pass yDot through, got %v", yDot)
	}
}

func TestDepthWindowTopVsBottom(t *testing.T) {
	top := New()
	top.SetParams(0.5, true, false)
	for i := 0; i < 100; i++ {
		top.Shape(0, 0, 1)
	}
	y, _ := top.Shape(1.0, 0, 0)
	if !within(y, 0.5, 1e-3) {
		t.Errorf("top-anchored depth 0.5 at y_in=1 should give 0.5, got %v", y)
	}

	bottom := New()
	bottom.SetParams(0.5, false, false)
	for i := 0; i < 100; i++ {
		bottom.Shape(0, 0, 1)
	}
	y, _ = bottom.Shape(0.0, 0, 0)
	if !within(y, 0.5, 1e-3) {
		t.Errorf("bottom-anchored depth 0.5 at y_in=0 should give 0.5, got %v", y)
	}
}

func TestTransitioningClearsOnSettle(t *testing.T) {
	s := New()
	s.SetParams(0.5, true, false)
	if !s.Transitioning() {
		t.Fatal("expected transitioning after a depth change beyond deadband")
	}
	for i := 0; i < 600; i++ {
		s.Shape(0.5, 0, 0.01)
	}
	if s.Transitioning() {
		t.Error("expected transitioning to clear after settling")
	}
	if !within(s.Depth(), 0.5, 1e-3) {
		t.Errorf("depth should have settled to 0.5, got %v", s.Depth())
	}
}

func TestSlewIsRateLimited(t *testing.T) {
	s := New()
	s.SetParams(0.0, true, false)
	y, _ := s.Shape(1.0, 0, 0.05) // one tick at 0.1/s slew => depth moves by 0.005
	want := 1.0 * (1 - 0.005)
	if !within(y, want, 1e-6) {
		t.Errorf("single tick should only move depth by slew*dt, got y=%v want=%v", y, want)
	}
}

func TestShapeRoundTrip(t *testing.T) {
	s := New()
	s.SetParams(0.6, true, true)
	for i := 0; i < 600; i++ {
		s.Shape(0.5, 0, 0.01)
	}
	for _, yIn := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		yOut, _ := s.Shape(yIn, 0, 0)
		back, ok := s.Unshape(yOut)
		if !ok {
			t.Fatalf("unshape should succeed once settled, y_in=%v", yIn)
		}
		if !within(back, yIn, 1e-3) {
			t.Errorf("round trip failed for y_in=%v: got %v", yIn, back)
		}
	}
}

func TestUnshapeFailsWhileTransitioning(t *testing.T) {
	s := New()
	s.SetParams(0.5, true, false)
	if _, ok := s.Unshape(0.3); ok {
		t.Error("unshape should fail while transitioning")
	}
}

func TestUnshapeFailsAtDegenerateDepth(t *testing.T) {
	s := New()
	s.SetParams(0.0, true, false)
	for i := 0; i < 1100; i++ {
		s.Shape(0.5, 0, 0.01)
	}
	if _, ok := s.Unshape(0.0); ok {
		t.Error("unshape should fail when depth has settled to ~0")
	}
}
