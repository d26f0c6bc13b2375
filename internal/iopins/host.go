//go:build !mcu

package iopins

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"ossm-go/errcode"
)

var hostInitErr error

func ensureHostInit() error {
	if hostInitErr == nil {
		_, hostInitErr = host.Init()
	}
	return hostInitErr
}

// OpenOutput resolves pin index idx to a host GPIO line via periph.io's
// registry and returns an OutputPin driving it.
func OpenOutput(idx uint32) (OutputPin, error) {
	if err := ensureHostInit(); err != nil {
		return nil, errcode.Wrap(errcode.PinUnavailable, "iopins.OpenOutput", err)
	}
	pin := gpioreg.ByName(strconv.FormatUint(uint64(idx), 10))
	if pin == nil {
		pin = gpioreg.ByName(fmt.Sprintf("GPIO%d", idx))
	}
	if pin == nil {
		return nil, errcode.New(errcode.PinUnavailable, "iopins.OpenOutput", fmt.Sprintf("no host GPIO line for pin %d", idx))
	}
	return &hostOutputPin{pin: pin}, nil
}

type hostOutputPin struct {
	pin gpio.PinIO
}

func (p *hostOutputPin) Set(high bool) error {
	level := gpio.Low
	if high {
		level = gpio.High
	}
	return p.pin.Out(level)
}
