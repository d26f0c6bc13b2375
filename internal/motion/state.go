package motion

import "ossm-go/internal/waveform"

// GetCurrentState returns a point-in-time snapshot computed without
// mutating the live controller: it shapes on a cloned shaper with dt=0.
func (c *Controller) GetCurrentState() StateResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	var y, yDot, phase float64
	elapsed := 0.0
	if c.config.Paused {
		y, yDot = pauseStep(c.currentPausedY, c.config.PausedPosition, 0)
		phase = c.wave.FindXForY(y)
	} else {
		elapsed = c.now().Sub(c.t0).Seconds()
		y, yDot = c.wave.Evaluate(elapsed, c.config.BPM)
		phase = waveform.Phase(elapsed, c.config.BPM)
	}

	shapedClone := c.shaper.Clone()
	yShaped, yDotShaped := shapedClone.Shape(y, yDot, 0)

	var pos int32
	var speed float64
	if c.runState == Running || c.runState == Paused {
		pos, speed = c.posGen.Generate(yShaped, yDotShaped)
	}

	return StateResponse{
		Config:   c.config,
		T:        elapsed,
		X:        phase,
		Y:        y,
		ShapedY:  yShaped,
		Position: pos,
		Speed:    speed,
	}
}
