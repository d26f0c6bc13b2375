package motion

import (
	"testing"
	"time"

	"ossm-go/internal/position"
	"ossm-go/internal/waveform"
)

type fakeMotor struct {
	pos            int32
	posMin, posMax int32
	written        []int32
}

func (m *fakeMotor) Cycle() error  { return nil }
func (m *fakeMotor) Homing() error { return nil }
func (m *fakeMotor) ReadPosition() (int32, error) {
	return m.pos, nil
}
func (m *fakeMotor) WritePosition(position int32, speed float64) error {
	m.pos = position
	m.written = append(m.written, position)
	return nil
}
func (m *fakeMotor) PosMin() int32                     { return m.posMin }
func (m *fakeMotor) PosMax() int32                     { return m.posMax }
func (m *fakeMotor) SetMaxPower(uint16) error           { return nil }
func (m *fakeMotor) SetAcceleration(uint16) error       { return nil }
func (m *fakeMotor) SetPositionRingRatio(uint16) error  { return nil }
func (m *fakeMotor) SetSpeedRingRatio(uint16) error     { return nil }

// fakeClock lets tests drive elapsed time deterministically.
type fakeClock struct {
	base time.Time
	t    time.Time
}

func newFakeClock() *fakeClock {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeClock{base: base, t: base}
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func within(got, want, tol float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// newHomedController builds a Controller already positioned as if
// InitMotor had succeeded, without driving the (slow, real-time) homing
// sequence.
func newHomedController(t *testing.T, cfg MotorControllerConfig, clock *fakeClock) *Controller {
	t.Helper()
	m := &fakeMotor{posMin: -2000, posMax: 2000}
	c, err := New(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	c.now = clock.now
	c.posGen = position.New(-2000, 2000)
	c.runState = Running
	c.t0 = clock.now()
	c.currentPausedY = 0.5
	return c
}

func TestDefaultSineOneCycle(t *testing.T) {
	clock := newFakeClock()
	c := newHomedController(t, DefaultConfig(), clock)

	clock.advance(250 * time.Millisecond)
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	state := c.GetCurrentState()
	if !within(state.ShapedY, 1.0, 0.02) {
		t.Errorf("shaped_y at 0.25s = %v, want ~1.0", state.ShapedY)
	}

	clock.t = clock.base
	clock.advance(750 * time.Millisecond)
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	state = c.GetCurrentState()
	if !within(state.ShapedY, 0.0, 0.02) {
		t.Errorf("shaped_y at 0.75s = %v, want ~0.0", state.ShapedY)
	}
}

func TestPauseResumePreservesPhase(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.BPM = 30
	c := newHomedController(t, cfg, clock)

	// Advance to the instant y=0.5 rising: phase=0 at t0, so move forward
	// a quarter cycle at 30bpm (period=2s) -> 0.5s is actually phase 0.25,
	// which is y=1 for sine. y=0.5 rising is phase 0 itself; use t0.
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	state := c.GetCurrentState()
	if !within(state.Y, 0.5, 0.01) {
		t.Fatalf("setup: expected y=0.5 at phase 0, got %v", state.Y)
	}

	paused := cfg
	paused.Paused = true
	if err := c.SetConfig(paused); err != nil {
		t.Fatal(err)
	}
	clock.advance(500 * time.Millisecond)
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}

	resumed := paused
	resumed.Paused = false
	if err := c.SetConfig(resumed); err != nil {
		t.Fatal(err)
	}
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	state = c.GetCurrentState()
	if !within(state.Y, 0.5, 0.01) {
		t.Errorf("y after resume = %v, want ~0.5", state.Y)
	}
}

func TestBPMChangePreservesPhase(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.BPM = 60
	c := newHomedController(t, cfg, clock)

	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	before := c.GetCurrentState()
	if !within(before.Y, 0.5, 0.01) {
		t.Fatalf("setup: expected y=0.5 at phase 0, got %v", before.Y)
	}

	changed := cfg
	changed.BPM = 120
	if err := c.SetConfig(changed); err != nil {
		t.Fatal(err)
	}
	after := c.GetCurrentState()
	if !within(after.Y, 0.5, 0.01) {
		t.Errorf("y immediately after bpm change = %v, want ~0.5", after.Y)
	}
}

func TestSplineNormalizationSeed(t *testing.T) {
	flat := waveform.NewSpline([]float64{0.2, 0.2})
	for i := 0; i <= 10; i++ {
		y, yDot := flat.Evaluate(float64(i)/10, 60)
		if !within(y, 0.5, 1e-6) || yDot != 0 {
			t.Fatalf("flat spline should be constant 0.5/0, got (%v,%v)", y, yDot)
		}
	}

	ranged := waveform.NewSpline([]float64{0.0, 0.5, 1.0, 0.5})
	minY, maxY := 1.0, 0.0
	for i := 0; i < 1500; i++ {
		y, _ := ranged.Evaluate(float64(i)/1500*60/60, 60)
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if !within(minY, 0, 1e-3) || !within(maxY, 1, 1e-3) {
		t.Errorf("ranged spline table min/max = %v/%v, want 0/1", minY, maxY)
	}
}

func TestWaveSwapContinuity(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.BPM = 60
	c := newHomedController(t, cfg, clock)

	sine := waveform.NewSine()
	phase03 := sine.FindXForY(0.3)
	clock.t = clock.base.Add(time.Duration(phase03 * 60 / cfg.BPM * float64(time.Second)))
	if err := c.Cycle(0.01); err != nil {
		t.Fatal(err)
	}
	before := c.GetCurrentState()
	if !within(before.Y, 0.3, 0.01) {
		t.Fatalf("setup: expected y~0.3, got %v", before.Y)
	}

	swapped := cfg
	swapped.WaveFunc = waveform.Thrust
	swapped.Sharpness = 0.3
	if err := c.SetConfig(swapped); err != nil {
		t.Fatal(err)
	}
	after := c.GetCurrentState()
	if !within(after.Y, 0.3, 0.01) {
		t.Errorf("y immediately after wave swap = %v, want ~0.3", after.Y)
	}
}

func TestConfigVersionMonotonic(t *testing.T) {
	clock := newFakeClock()
	c := newHomedController(t, DefaultConfig(), clock)
	start := c.ConfigVersion()
	for i := 0; i < 5; i++ {
		cfg := c.Config()
		cfg.BPM = 60 + float64(i)
		if err := c.SetConfig(cfg); err != nil {
			t.Fatal(err)
		}
	}
	if c.ConfigVersion() != start+5 {
		t.Errorf("config_version = %v, want %v", c.ConfigVersion(), start+5)
	}
}

func TestCycleRefusesBeforeHoming(t *testing.T) {
	m := &fakeMotor{}
	c, err := New(m, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Cycle(0.01); err == nil {
		t.Error("expected error cycling before homing")
	}
}
