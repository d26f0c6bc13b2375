package motor

import (
	"time"

	"ossm-go/errcode"
)

// registerClient is the subset of *modbus.Master the 57AIM30 mapping needs.
// Kept narrow and local so this package doesn't import internal/modbus.
type registerClient interface {
	ReadHoldingRegister(addr uint16) (uint16, error)
	ReadHoldingRegisters(addr, quantity uint16) ([]uint16, error)
	WriteHoldingRegister(addr, value uint16) error
	WriteHoldingRegisters(addr uint16, values []uint16) error
}

// 57AIM30 holding register addresses used by this mapping.
const (
	regControl          = 0x00
	regAcceleration     = 0x03
	regBaud             = 0x03 // shares the address with acceleration; only one is meaningful per mode
	regSpeedRingRatio   = 0x05
	regPositionRingRatio = 0x07
	regPosition         = 0x16 // two registers: low word, high word
	regMaxPower         = 0x18
)

// Homing tuning constants, from the 57AIM30 reference procedure.
const (
	homingMaxPower       = 60
	homingAcceleration   = 10000
	homingTravelCounts   = 1000000
	homingEndstopMargin  = 3000
	homingSettleDuration = 5 * time.Second
	homingPollInterval   = 100 * time.Millisecond
	homingStableDelta    = 10
)

// sleep is a package-level hook so tests can run homing without waiting on
// real wall-clock delays.
var sleep = time.Sleep

// now is a package-level hook mirroring sleep, used for stability polling
// budgets.
var now = time.Now

// AIM30 maps the Motor capability set onto 57AIM30 Modbus holding
// registers.
type AIM30 struct {
	client         registerClient
	posMin, posMax int32
}

// New wraps client as a 57AIM30-mapped Motor. posMin/posMax start at zero,
// the un-homed state.
func New(client registerClient) *AIM30 {
	return &AIM30{client: client}
}

func (m *AIM30) PosMin() int32 { return m.posMin }
func (m *AIM30) PosMax() int32 { return m.posMax }

func (m *AIM30) Cycle() error { return nil }

func (m *AIM30) ReadPosition() (int32, error) {
	regs, err := m.client.ReadHoldingRegisters(regPosition, 2)
	if err != nil {
		return 0, errcode.Wrap(errcode.ModbusFrame, "motor.ReadPosition", err)
	}
	low, high := regs[0], regs[1]
	return int32(uint32(high)<<16 | uint32(low)), nil
}

// writePositionRaw writes position directly to the register pair, with no
// zero-to-one substitution.
func (m *AIM30) writePositionRaw(position int32) error {
	u := uint32(position)
	low := uint16(u)
	high := uint16(u >> 16)
	return m.client.WriteHoldingRegisters(regPosition, []uint16{low, high})
}

// WritePosition writes the target position. The device treats a literal
// zero as a no-op in this mode, so zero is written as one instead. speed is
// accepted for interface symmetry with the abstract Motor capability set;
// the 57AIM30 mapping has no separate speed register and relies on the
// ring-ratio/acceleration parameters programmed at init.
func (m *AIM30) WritePosition(position int32, speed float64) error {
	if position == 0 {
		position = 1
	}
	if err := m.writePositionRaw(position); err != nil {
		return errcode.Wrap(errcode.ModbusFrame, "motor.WritePosition", err)
	}
	return nil
}

func (m *AIM30) resetPosition() error {
	return m.writePositionRaw(0)
}

func (m *AIM30) SetMaxPower(v uint16) error {
	return m.writeParam(regMaxPower, v, "motor.SetMaxPower")
}
func (m *AIM30) SetAcceleration(v uint16) error {
	return m.writeParam(regAcceleration, v, "motor.SetAcceleration")
}
func (m *AIM30) SetPositionRingRatio(v uint16) error {
	return m.writeParam(regPositionRingRatio, v, "motor.SetPositionRingRatio")
}
func (m *AIM30) SetSpeedRingRatio(v uint16) error {
	return m.writeParam(regSpeedRingRatio, v, "motor.SetSpeedRingRatio")
}

func (m *AIM30) writeParam(addr uint16, v uint16, op string) error {
	if err := m.client.WriteHoldingRegister(addr, v); err != nil {
		return errcode.Wrap(errcode.ModbusFrame, op, err)
	}
	return nil
}

// waitStablePosition polls ReadPosition until two reads 100 ms apart agree
// within homingStableDelta counts, or the budget elapses.
func (m *AIM30) waitStablePosition(budget time.Duration) (int32, error) {
	deadline := now().Add(budget)
	prev, err := m.ReadPosition()
	if err != nil {
		return 0, err
	}
	for now().Before(deadline) {
		sleep(homingPollInterval)
		cur, err := m.ReadPosition()
		if err != nil {
			return 0, err
		}
		delta := cur - prev
		if delta < 0 {
			delta = -delta
		}
		if delta < homingStableDelta {
			return cur, nil
		}
		prev = cur
	}
	return 0, errcode.New(errcode.HomingUnstable, "motor.waitStablePosition", "position did not settle within budget")
}

// Homing requires the motor be un-homed (PosMin==PosMax==0), then runs the
// endpoint-calibration sequence: drive full-reverse, record the settled
// position with margin as PosMin; drive full-forward, record as PosMax;
// settle at the midpoint.
func (m *AIM30) Homing() error {
	if m.posMin != 0 || m.posMax != 0 {
		return errcode.New(errcode.ConfigOutOfRange, "motor.Homing", "motor already homed")
	}

	if err := m.SetMaxPower(homingMaxPower); err != nil {
		return err
	}
	if err := m.SetAcceleration(homingAcceleration); err != nil {
		return err
	}
	if err := m.resetPosition(); err != nil {
		return errcode.Wrap(errcode.ModbusFrame, "motor.Homing", err)
	}

	if err := m.WritePosition(-homingTravelCounts, 0); err != nil {
		return err
	}
	sleep(homingSettleDuration)
	stableLow, err := m.waitStablePosition(homingSettleDuration)
	if err != nil {
		return err
	}
	m.posMin = stableLow + homingEndstopMargin

	if err := m.WritePosition(homingTravelCounts, 0); err != nil {
		return err
	}
	sleep(homingSettleDuration)
	stableHigh, err := m.waitStablePosition(homingSettleDuration)
	if err != nil {
		return err
	}
	m.posMax = stableHigh - homingEndstopMargin

	mid := (m.posMin + m.posMax) / 2
	if err := m.WritePosition(mid, 0); err != nil {
		return err
	}
	sleep(homingSettleDuration)
	if _, err := m.waitStablePosition(homingSettleDuration); err != nil {
		return err
	}
	return nil
}
