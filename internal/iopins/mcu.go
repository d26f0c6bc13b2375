//go:build mcu

package iopins

import (
	"fmt"

	"machine"

	"ossm-go/errcode"
)

// OpenOutput resolves pin index idx to a machine.Pin and returns an
// OutputPin configured for push-pull output, mirroring the teacher's
// per-platform pin factory split.
func OpenOutput(idx uint32) (OutputPin, error) {
	if idx > 255 {
		return nil, errcode.New(errcode.PinUnavailable, "iopins.OpenOutput", fmt.Sprintf("pin index %d out of range", idx))
	}
	pin := machine.Pin(idx)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &mcuOutputPin{pin: pin}, nil
}

type mcuOutputPin struct {
	pin machine.Pin
}

func (p *mcuOutputPin) Set(high bool) error {
	p.pin.Set(high)
	return nil
}
