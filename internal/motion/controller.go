// Package motion owns the three-layer signal chain (waveform, shaper,
// position) plus the phase-preservation discipline that keeps the motor's
// output stream continuous across live parameter edits, pauses, and
// waveform swaps.
package motion

import (
	"sync"
	"time"

	"ossm-go/errcode"
	"ossm-go/internal/mathx"
	"ossm-go/internal/motor"
	"ossm-go/internal/position"
	"ossm-go/internal/shaper"
	"ossm-go/internal/waveform"
)

// RunState names where the controller sits in its Unhomed -> Homing ->
// Running <-> Paused state machine.
type RunState int

const (
	Unhomed RunState = iota
	Homing
	Running
	Paused
)

const (
	pauseSpeed               = 0.3 // units/s
	pauseDeadband            = 0.01
	sharpnessChangeThreshold = 0.001
	bpmChangeThreshold       = 0.001

	initMaxPower          = 350
	initAcceleration      = 40000
	initPositionRingRatio = 3000
	initSpeedRingRatio    = 3000
)

// Controller owns the motor, the three signal-chain layers, and the phase
// anchor. A single mutex serializes every operation, including the
// blocking Modbus round trip inside Cycle.
type Controller struct {
	mu sync.Mutex

	motor   motor.Motor
	wave    waveform.Waveform
	shaper  *shaper.Shaper
	posGen  position.Generator

	config        MotorControllerConfig
	configVersion uint32

	t0             time.Time
	currentPausedY float64

	runState RunState
	homeErr  error

	now func() time.Time
}

// New constructs a Controller around motor, with the waveform/shaper built
// from initial. The controller starts Unhomed; call InitMotor before the
// first Cycle.
func New(m motor.Motor, initial MotorControllerConfig) (*Controller, error) {
	wave, err := waveform.New(initial.WaveFunc, initial.Sharpness, initial.SplinePoints)
	if err != nil {
		wave = waveform.NewSine()
	}
	c := &Controller{
		motor:    m,
		wave:     wave,
		shaper:   shaper.New(),
		config:   initial,
		runState: Unhomed,
		now:      time.Now,
	}
	c.shaper.SetParams(initial.Depth, initial.DepthTop, initial.Reversed)
	return c, nil
}

// Config returns a copy of the live configuration.
func (c *Controller) Config() MotorControllerConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// ConfigVersion returns the monotonic counter bumped by every accepted
// SetConfig.
func (c *Controller) ConfigVersion() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configVersion
}

// RunState reports the controller's position in its state machine.
func (c *Controller) RunState() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runState
}

// Cycle runs the pipeline once: pause easing or waveform evaluation,
// shaping, position generation, and a Modbus write.
func (c *Controller) Cycle(dt float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runState != Running && c.runState != Paused {
		return errcode.New(errcode.MotorUninitialized, "motion.Cycle", "motor not initialized")
	}

	y, yDot := c.sampleSource(dt)
	yShaped, yDotShaped := c.shaper.Shape(y, yDot, dt)
	pos, speed := c.posGen.Generate(yShaped, yDotShaped)

	if err := c.motor.WritePosition(pos, speed); err != nil {
		return err
	}
	return c.motor.Cycle()
}

// sampleSource advances either the pause-ease or the waveform, updating
// currentPausedY so a future pause starts smoothly.
func (c *Controller) sampleSource(dt float64) (y, yDot float64) {
	if c.config.Paused {
		y, yDot = pauseStep(c.currentPausedY, c.config.PausedPosition, dt)
		c.currentPausedY = y
		return y, yDot
	}
	elapsed := c.now().Sub(c.t0).Seconds()
	y, yDot = c.wave.Evaluate(elapsed, c.config.BPM)
	c.currentPausedY = y
	return y, yDot
}

func pauseStep(current, target, dt float64) (y, yDot float64) {
	diff := target - current
	if mathx.Abs(diff) <= pauseDeadband {
		return target, 0
	}
	step := pauseSpeed * dt
	if diff > 0 {
		y = mathx.Min(current+step, target)
		yDot = pauseSpeed
	} else {
		y = mathx.Max(current-step, target)
		yDot = -pauseSpeed
	}
	return y, yDot
}

// SetConfig replaces the live configuration, preserving output continuity
// by re-anchoring t0 according to the first matching rule below.
func (c *Controller) SetConfig(newCfg MotorControllerConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.config
	at := c.now()

	var lastY float64
	if old.Paused {
		lastY = c.currentPausedY
	} else {
		elapsed := at.Sub(c.t0).Seconds()
		lastY, _ = c.wave.Evaluate(elapsed, old.BPM)
	}

	waveIdentityChanged := newCfg.WaveFunc != old.WaveFunc || !splinePointsEqual(newCfg.SplinePoints, old.SplinePoints)
	sharpnessChanged := mathx.Abs(newCfg.Sharpness-old.Sharpness) > sharpnessChangeThreshold
	if waveIdentityChanged || sharpnessChanged {
		newWave, err := waveform.New(newCfg.WaveFunc, newCfg.Sharpness, newCfg.SplinePoints)
		if err != nil {
			newWave = waveform.NewSine()
		}
		c.wave = newWave
	}

	c.shaper.SetParams(newCfg.Depth, newCfg.DepthTop, newCfg.Reversed)

	pausedToRunning := old.Paused && !newCfg.Paused

	switch {
	case (waveIdentityChanged || sharpnessChanged) && !newCfg.Paused:
		phase := c.wave.FindXForY(lastY)
		c.reanchor(at, phase, newCfg.BPM)
	case pausedToRunning:
		phase := c.wave.FindXForY(c.currentPausedY)
		c.reanchor(at, phase, newCfg.BPM)
	case mathx.Abs(newCfg.BPM-old.BPM) > bpmChangeThreshold && !newCfg.Paused:
		elapsed := at.Sub(c.t0).Seconds()
		phase := waveform.Phase(elapsed, old.BPM)
		c.reanchor(at, phase, newCfg.BPM)
	}

	c.config = newCfg
	c.configVersion++

	if c.runState == Running || c.runState == Paused {
		if newCfg.Paused {
			c.runState = Paused
		} else {
			c.runState = Running
		}
	}
	return nil
}

func (c *Controller) reanchor(at time.Time, phase, bpm float64) {
	offset := time.Duration(phase * 60 / bpm * float64(time.Second))
	c.t0 = at.Add(-offset)
}

func splinePointsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
