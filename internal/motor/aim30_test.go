package motor

import (
	"testing"
	"time"
)

// fakeClient is a minimal in-memory registerClient.
type fakeClient struct {
	registers map[uint16]uint16
	// posSequence, if set, overrides ReadHoldingRegisters(regPosition,2)
	// with successive canned positions (for homing stability tests).
	posSequence []int32
	posIdx      int
}

func newFakeClient() *fakeClient {
	return &fakeClient{registers: make(map[uint16]uint16)}
}

func (f *fakeClient) ReadHoldingRegister(addr uint16) (uint16, error) {
	return f.registers[addr], nil
}

func (f *fakeClient) ReadHoldingRegisters(addr, quantity uint16) ([]uint16, error) {
	if addr == regPosition && quantity == 2 && f.posSequence != nil {
		i := f.posIdx
		if i >= len(f.posSequence) {
			i = len(f.posSequence) - 1
		}
		f.posIdx++
		u := uint32(f.posSequence[i])
		return []uint16{uint16(u), uint16(u >> 16)}, nil
	}
	out := make([]uint16, quantity)
	for i := range out {
		out[i] = f.registers[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeClient) WriteHoldingRegister(addr, value uint16) error {
	f.registers[addr] = value
	return nil
}

func (f *fakeClient) WriteHoldingRegisters(addr uint16, values []uint16) error {
	for i, v := range values {
		f.registers[addr+uint16(i)] = v
	}
	return nil
}

func noSleep(time.Duration) {}

func TestWritePositionZeroBecomesOne(t *testing.T) {
	c := newFakeClient()
	m := New(c)
	if err := m.WritePosition(0, 0); err != nil {
		t.Fatal(err)
	}
	pos, err := m.ReadPosition()
	if err != nil {
		t.Fatal(err)
	}
	if pos != 1 {
		t.Errorf("writing position 0 should land as 1, got %v", pos)
	}
}

func TestReadPositionCombinesRegisters(t *testing.T) {
	c := newFakeClient()
	m := New(c)
	if err := m.WritePosition(-5000, 0); err != nil {
		t.Fatal(err)
	}
	pos, err := m.ReadPosition()
	if err != nil {
		t.Fatal(err)
	}
	if pos != -5000 {
		t.Errorf("read position = %v, want -5000", pos)
	}
}

func TestHomingRejectsAlreadyHomed(t *testing.T) {
	c := newFakeClient()
	m := New(c)
	m.posMin, m.posMax = -1, 1
	if err := m.Homing(); err == nil {
		t.Error("expected error homing an already-homed motor")
	}
}

func TestHomingComputesBounds(t *testing.T) {
	origSleep, origNow := sleep, now
	sleep = noSleep
	defer func() { sleep = origSleep; now = origNow }()

	c := newFakeClient()
	// First settle: stable at -5000. Second settle: stable at +5000.
	// Third settle (midpoint): stable at the midpoint the code commands.
	c.posSequence = []int32{
		-5000, -5000, // reverse travel settles
		5000, 5000, // forward travel settles
		0, 0, // midpoint settles
	}
	m := New(c)
	if err := m.Homing(); err != nil {
		t.Fatal(err)
	}
	if m.PosMin() != -5000+homingEndstopMargin {
		t.Errorf("PosMin = %v, want %v", m.PosMin(), -5000+homingEndstopMargin)
	}
	if m.PosMax() != 5000-homingEndstopMargin {
		t.Errorf("PosMax = %v, want %v", m.PosMax(), 5000-homingEndstopMargin)
	}
}

func TestHomingUnstableFails(t *testing.T) {
	origSleep, origNow := sleep, now
	sleep = noSleep
	// Make the poll budget expire immediately so an always-moving fake
	// position never looks stable.
	callCount := 0
	now = func() time.Time {
		callCount++
		base := time.Unix(0, 0)
		if callCount == 1 {
			return base
		}
		return base.Add(homingSettleDuration * 2)
	}
	defer func() { sleep = origSleep; now = origNow }()

	c := newFakeClient()
	c.posSequence = []int32{0, 100, 200, 300, 400, 500}
	m := New(c)
	if err := m.Homing(); err == nil {
		t.Error("expected homing to fail when position never stabilizes")
	}
}
