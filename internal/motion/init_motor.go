package motion

import "ossm-go/internal/position"

// InitMotor homes the motor, captures pos_min/pos_max, programs the
// servo's run-time parameters, and attempts a seamless resume from the
// motor's present position. Failure is terminal: the controller stays
// Unhomed and Cycle will keep refusing to run.
func (c *Controller) InitMotor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runState = Homing

	if err := c.motor.Homing(); err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}

	c.posGen = position.New(c.motor.PosMin(), c.motor.PosMax())

	if err := c.motor.SetMaxPower(initMaxPower); err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}
	if err := c.motor.SetAcceleration(initAcceleration); err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}
	if err := c.motor.SetPositionRingRatio(initPositionRingRatio); err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}
	if err := c.motor.SetSpeedRingRatio(initSpeedRingRatio); err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}

	pos, err := c.motor.ReadPosition()
	if err != nil {
		c.runState = Unhomed
		c.homeErr = err
		return err
	}

	span := float64(c.motor.PosMax() - c.motor.PosMin())
	normalized := 0.5
	if span != 0 {
		normalized = (float64(pos) - float64(c.motor.PosMin())) / span
	}

	at := c.now()
	if unshaped, ok := c.shaper.Unshape(normalized); ok {
		phase := c.wave.FindXForY(unshaped)
		c.reanchor(at, phase, c.config.BPM)
		c.currentPausedY = unshaped
	} else {
		c.shaper.ForceTransitioning()
		c.reanchor(at, 0.25, c.config.BPM)
		c.currentPausedY = 0.5
	}

	c.runState = Running
	if c.config.Paused {
		c.runState = Paused
	}
	c.homeErr = nil
	return nil
}
