// Package motor defines the abstract capability set a motion controller
// drives, and an implementation that maps it onto 57AIM30 holding-register
// semantics over Modbus.
package motor

// Motor is the capability set the motion controller drives every cycle.
type Motor interface {
	// Cycle is called once per control tick after WritePosition, for
	// drivers that need periodic housekeeping. The default 57AIM30
	// mapping has none and is a no-op.
	Cycle() error

	// Homing runs the endpoint-calibration procedure, populating
	// PosMin/PosMax. Only valid to call once, before any other motion.
	Homing() error

	ReadPosition() (int32, error)
	WritePosition(position int32, speed float64) error

	PosMin() int32
	PosMax() int32

	SetMaxPower(v uint16) error
	SetAcceleration(v uint16) error
	SetPositionRingRatio(v uint16) error
	SetSpeedRingRatio(v uint16) error
}
