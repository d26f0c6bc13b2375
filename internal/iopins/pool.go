// Package iopins manages the fixed-size pool of GPIO pin indices the
// Modbus link claims at boot, and the platform-specific direction-enable
// output used to drive an RS-485 transceiver's DE/RE line.
package iopins

import "ossm-go/errcode"

// Config mirrors the persisted pin assignment for the Modbus link.
type Config struct {
	ModbusTX   uint32 `json:"modbus_tx"`
	ModbusRX   uint32 `json:"modbus_rx"`
	ModbusDERE uint32 `json:"modbus_de_re"`
}

// DefaultConfig is the factory pin layout used when nothing is stored yet.
func DefaultConfig() Config {
	return Config{ModbusTX: 18, ModbusRX: 19, ModbusDERE: 20}
}

// Pool is a fixed-size collection of pin indices. Pins are claimed
// permanently; the pool is never returned to.
type Pool struct {
	available []uint32
	taken     map[uint32]bool
}

// NewPool returns a pool of pin indices [0, count).
func NewPool(count uint32) *Pool {
	p := &Pool{taken: make(map[uint32]bool, count)}
	for i := uint32(0); i < count; i++ {
		p.available = append(p.available, i)
	}
	return p
}

// Reserve permanently removes idx from the pool without counting it as
// claimed by the Modbus link, e.g. pins a host console already owns.
func (p *Pool) Reserve(idx uint32) {
	p.removeAvailable(idx)
	p.taken[idx] = true
}

// Free reports whether idx is still unclaimed.
func (p *Pool) Free(idx uint32) bool {
	for _, a := range p.available {
		if a == idx {
			return true
		}
	}
	return false
}

func (p *Pool) removeAvailable(idx uint32) bool {
	for i, a := range p.available {
		if a == idx {
			p.available = append(p.available[:i], p.available[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Pool) claim(idx uint32) {
	p.removeAvailable(idx)
	p.taken[idx] = true
}

// ClaimFirstFree claims and returns the lowest-index free pin.
func (p *Pool) ClaimFirstFree() (uint32, error) {
	if len(p.available) == 0 {
		return 0, errcode.New(errcode.PinUnavailable, "iopins.ClaimFirstFree", "no pins available")
	}
	idx := p.available[0]
	p.claim(idx)
	return idx, nil
}

// Resolve claims the three pins named in want if all are free and
// distinct. Otherwise it falls back to the first three still-available
// pins in index order and reports that a fallback occurred, so the caller
// can persist the new layout.
func Resolve(pool *Pool, want Config) (cfg Config, fellBack bool, err error) {
	distinct := want.ModbusTX != want.ModbusRX &&
		want.ModbusTX != want.ModbusDERE &&
		want.ModbusRX != want.ModbusDERE
	if distinct && pool.Free(want.ModbusTX) && pool.Free(want.ModbusRX) && pool.Free(want.ModbusDERE) {
		pool.claim(want.ModbusTX)
		pool.claim(want.ModbusRX)
		pool.claim(want.ModbusDERE)
		return want, false, nil
	}

	tx, err := pool.ClaimFirstFree()
	if err != nil {
		return Config{}, false, err
	}
	rx, err := pool.ClaimFirstFree()
	if err != nil {
		return Config{}, false, err
	}
	de, err := pool.ClaimFirstFree()
	if err != nil {
		return Config{}, false, err
	}
	return Config{ModbusTX: tx, ModbusRX: rx, ModbusDERE: de}, true, nil
}
