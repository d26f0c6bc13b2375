package modbus

import (
	"encoding/binary"
	"fmt"

	"ossm-go/errcode"
)

// ReadHoldingRegister reads a single holding register.
func (m *Master) ReadHoldingRegister(addr uint16) (uint16, error) {
	vals, err := m.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// ReadHoldingRegisters reads quantity consecutive holding registers
// starting at addr.
func (m *Master) ReadHoldingRegisters(addr, quantity uint16) ([]uint16, error) {
	req := buildReadHoldingRegisters(m.deviceID, addr, quantity)
	resp, err := m.exchange(req)
	if err != nil {
		return nil, err
	}
	if err := checkCRC(resp); err != nil {
		return nil, err
	}
	if resp[1]&exceptionFlag != 0 {
		return nil, errcode.New(errcode.ModbusFrame, "modbus.ReadHoldingRegisters", fmt.Sprintf("exception code 0x%02x", resp[2]))
	}
	byteCount := int(resp[2])
	if byteCount != int(quantity)*2 {
		return nil, errcode.New(errcode.ModbusFrame, "modbus.ReadHoldingRegisters", "unexpected byte count")
	}
	vals := make([]uint16, quantity)
	for i := range vals {
		vals[i] = binary.BigEndian.Uint16(resp[3+i*2:])
	}
	return vals, nil
}

// WriteHoldingRegister writes a single holding register and confirms the
// echoed acknowledgement.
func (m *Master) WriteHoldingRegister(addr, value uint16) error {
	req := buildWriteSingleRegister(m.deviceID, addr, value)
	resp, err := m.exchange(req)
	if err != nil {
		return err
	}
	if err := checkCRC(resp); err != nil {
		return err
	}
	if resp[1]&exceptionFlag != 0 {
		return errcode.New(errcode.ModbusFrame, "modbus.WriteHoldingRegister", fmt.Sprintf("exception code 0x%02x", resp[2]))
	}
	return nil
}

// WriteHoldingRegisters writes a contiguous run of holding registers.
func (m *Master) WriteHoldingRegisters(addr uint16, values []uint16) error {
	req := buildWriteMultipleRegisters(m.deviceID, addr, values)
	resp, err := m.exchange(req)
	if err != nil {
		return err
	}
	if err := checkCRC(resp); err != nil {
		return err
	}
	if resp[1]&exceptionFlag != 0 {
		return errcode.New(errcode.ModbusFrame, "modbus.WriteHoldingRegisters", fmt.Sprintf("exception code 0x%02x", resp[2]))
	}
	return nil
}

// ScanResult is the baud/device-id pair a successful Scan discovered.
type ScanResult struct {
	Baud     int
	DeviceID byte
}

// deviceProbeRegister is an address any 57AIM30 responds to regardless of
// configuration, used to probe for a live device during Scan.
const deviceProbeRegister = 0x00

// Scan sweeps the standard baud rates and, for each, every device id from 1
// to 247, reading deviceProbeRegister until one responds.
func (m *Master) Scan() (ScanResult, error) {
	for _, baud := range scanBauds {
		if err := m.SetBaudrate(baud); err != nil {
			continue
		}
		for id := 1; id <= 247; id++ {
			m.deviceID = byte(id)
			if _, err := m.ReadHoldingRegister(deviceProbeRegister); err == nil {
				return ScanResult{Baud: baud, DeviceID: byte(id)}, nil
			}
		}
	}
	return ScanResult{}, errcode.New(errcode.ModbusNoDevice, "modbus.Scan", "no device responded on any baud rate")
}

// SetMotorBaudRate reprograms the 57AIM30's own baud rate register. The
// device requires a power cycle before the new baud takes effect.
func (m *Master) SetMotorBaudRate(baud int) error {
	code, err := baudCode(baud)
	if err != nil {
		return err
	}
	if err := m.WriteHoldingRegister(0x00, 1); err != nil {
		return err
	}
	if err := m.WriteHoldingRegister(0x03, code); err != nil {
		return err
	}
	if err := m.WriteHoldingRegister(0x04, 129); err != nil {
		return err
	}
	return m.WriteHoldingRegister(0x00, 506)
}

// EnableCommunication writes the register that turns on Modbus control of
// the 57AIM30.
func (m *Master) EnableCommunication() error {
	return m.WriteHoldingRegister(0x00, 1)
}
