// Package modbus implements the RTU master: framed request/response
// exchanges over a half-duplex serial line with optional GPIO-driven
// direction-enable, baud-derived timeouts, device scan, and baud-rate
// reconfiguration.
package modbus

import (
	"io"
	"time"

	"ossm-go/errcode"
	"ossm-go/internal/iopins"
)

// Port is the byte-oriented link the master writes requests to and reads
// responses from.
type Port interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	SetBaud(baud int) error
}

// Master is a Modbus-RTU master over a half-duplex serial line.
type Master struct {
	port  Port
	dePin iopins.OutputPin // nil if hardware RTS drives DE/RE instead

	deviceID byte
	baud     int

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewMaster constructs a Master at the given initial baud. dePin may be nil
// when the serial hardware itself (e.g. a UART in RS-485 half-duplex mode)
// owns direction control.
func NewMaster(port Port, dePin iopins.OutputPin, deviceID byte, baud int) (*Master, error) {
	m := &Master{port: port, dePin: dePin, deviceID: deviceID}
	if err := m.SetBaudrate(baud); err != nil {
		return nil, err
	}
	return m, nil
}

// DeviceID returns the slave id used for requests.
func (m *Master) DeviceID() byte { return m.deviceID }

// SetDeviceID changes the slave id used for subsequent requests.
func (m *Master) SetDeviceID(id byte) { m.deviceID = id }

// SetBaudrate reprograms the link's baud and re-derives the per-operation
// timeout from it.
func (m *Master) SetBaudrate(baud int) error {
	timeout, err := operationTimeout(baud)
	if err != nil {
		return err
	}
	if err := m.port.SetBaud(baud); err != nil {
		return errcode.Wrap(errcode.ModbusFrame, "modbus.SetBaudrate", err)
	}
	m.baud = baud
	m.readTimeout = timeout
	m.writeTimeout = timeout
	return nil
}

// txDuration estimates how long the UART hardware takes to shift n bytes
// out at the given baud (8 data bits + start + stop, no parity). The
// `Port` interface has no hardware TX-complete signal to wait on, so this
// stands in for it: deasserting DE before the last bit has cleared the
// line corrupts the driver's turnaround on a real RS-485 transceiver.
func txDuration(n int, baud int) time.Duration {
	if baud <= 0 {
		return 0
	}
	bits := n * 10
	return time.Duration(bits) * time.Second / time.Duration(baud)
}

// exchange performs one request/response round trip: assert DE, write the
// frame, deassert DE, read a 6-byte header, then read whatever remainder
// the header implies. The response buffer is always >= 256 B.
func (m *Master) exchange(req []byte) ([]byte, error) {
	resp := make([]byte, minResponseBufferLen)

	if m.dePin != nil {
		if err := m.dePin.Set(true); err != nil {
			return nil, errcode.Wrap(errcode.PinUnavailable, "modbus.exchange", err)
		}
		time.Sleep(deSettle)
	}

	writeErr := m.writeAll(req)

	if m.dePin != nil {
		time.Sleep(txDuration(len(req), m.baud) + deSettle)
		if err := m.dePin.Set(false); err != nil {
			return nil, errcode.Wrap(errcode.PinUnavailable, "modbus.exchange", err)
		}
	}
	if writeErr != nil {
		return nil, writeErr
	}

	header := resp[:6]
	if err := m.readExactly(header); err != nil {
		return nil, err
	}
	frameLen, err := guessResponseFrameLen(header)
	if err != nil {
		return nil, err
	}
	if frameLen > len(resp) {
		frameLen = len(resp)
	}
	if frameLen > 6 {
		if err := m.readExactly(resp[6:frameLen]); err != nil {
			return nil, err
		}
	}
	return resp[:frameLen], nil
}

// writeAll loops until every byte is written, bounded by writeTimeout.
func (m *Master) writeAll(data []byte) error {
	deadline := time.Now().Add(m.writeTimeout)
	written := 0
	for written < len(data) {
		n, err := m.port.Write(data[written:])
		written += n
		if err != nil {
			return errcode.Wrap(errcode.ModbusFrame, "modbus.writeAll", err)
		}
		if n == 0 && time.Now().After(deadline) {
			return errcode.New(errcode.ModbusTimeout, "modbus.writeAll", "timed out writing request")
		}
	}
	return nil
}

// readExactly loops until len(buf) bytes have been read, bounded by
// readTimeout. Short reads retry; they are not errors.
func (m *Master) readExactly(buf []byte) error {
	deadline := time.Now().Add(m.readTimeout)
	got := 0
	for got < len(buf) {
		n, err := m.port.Read(buf[got:])
		got += n
		if err != nil && err != io.EOF {
			return errcode.Wrap(errcode.ModbusFrame, "modbus.readExactly", err)
		}
		if got < len(buf) && time.Now().After(deadline) {
			return errcode.New(errcode.ModbusTimeout, "modbus.readExactly", "timed out waiting for response")
		}
	}
	return nil
}
