//go:build !mcu

package serialport

import (
	"fmt"
	"time"

	"github.com/goburrow/serial"

	"ossm-go/errcode"
)

// hostPort wraps a goburrow/serial connection. BaudRate changes on a real
// termios device require closing and reopening the line.
type hostPort struct {
	address string
	cfg     serial.Config
	conn    serial.Port
}

// Open opens a host serial device (e.g. "/dev/ttyUSB0") at the given baud,
// 8 data bits, 1 stop bit, no parity, matching the 57AIM30's Modbus-RTU
// framing.
func Open(address string, baud int) (Port, error) {
	p := &hostPort{address: address}
	p.cfg = serial.Config{
		Address:  address,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  100 * time.Millisecond,
	}
	conn, err := serial.Open(&p.cfg)
	if err != nil {
		return nil, errcode.Wrap(errcode.PinUnavailable, "serialport.Open", err)
	}
	p.conn = conn
	return p, nil
}

func (p *hostPort) Read(b []byte) (int, error)  { return p.conn.Read(b) }
func (p *hostPort) Write(b []byte) (int, error) { return p.conn.Write(b) }

func (p *hostPort) SetBaud(baud int) error {
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return errcode.Wrap(errcode.ModbusFrame, "serialport.SetBaud", err)
		}
	}
	p.cfg.BaudRate = baud
	conn, err := serial.Open(&p.cfg)
	if err != nil {
		return errcode.Wrap(errcode.PinUnavailable, "serialport.SetBaud", fmt.Errorf("reopening %s at %d baud: %w", p.address, baud, err))
	}
	p.conn = conn
	return nil
}
