package modbus

import (
	"encoding/binary"
	"fmt"

	"ossm-go/errcode"
)

// crc16 computes the Modbus CRC-16 (polynomial 0xA001, init 0xFFFF).
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

func appendCRC(frame []byte) []byte {
	crc := crc16(frame)
	out := make([]byte, len(frame)+2)
	copy(out, frame)
	out[len(frame)] = byte(crc)
	out[len(frame)+1] = byte(crc >> 8)
	return out
}

func checkCRC(frame []byte) error {
	if len(frame) < 4 {
		return errcode.New(errcode.ModbusFrame, "modbus.checkCRC", "frame too short")
	}
	body := frame[:len(frame)-2]
	want := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	if crc16(body) != want {
		return errcode.New(errcode.ModbusFrame, "modbus.checkCRC", "crc mismatch")
	}
	return nil
}

func buildReadHoldingRegisters(deviceID byte, addr, quantity uint16) []byte {
	req := make([]byte, 6)
	req[0] = deviceID
	req[1] = funcReadHoldingRegisters
	binary.BigEndian.PutUint16(req[2:4], addr)
	binary.BigEndian.PutUint16(req[4:6], quantity)
	return appendCRC(req)
}

func buildWriteSingleRegister(deviceID byte, addr, value uint16) []byte {
	req := make([]byte, 6)
	req[0] = deviceID
	req[1] = funcWriteSingleRegister
	binary.BigEndian.PutUint16(req[2:4], addr)
	binary.BigEndian.PutUint16(req[4:6], value)
	return appendCRC(req)
}

func buildWriteMultipleRegisters(deviceID byte, addr uint16, values []uint16) []byte {
	byteCount := len(values) * 2
	req := make([]byte, 7+byteCount)
	req[0] = deviceID
	req[1] = funcWriteMultipleRegisters
	binary.BigEndian.PutUint16(req[2:4], addr)
	binary.BigEndian.PutUint16(req[4:6], uint16(len(values)))
	req[6] = byte(byteCount)
	for i, v := range values {
		binary.BigEndian.PutUint16(req[7+i*2:], v)
	}
	return appendCRC(req)
}

// guessResponseFrameLen infers the total response length from the first 6
// bytes read off the wire, per function code.
func guessResponseFrameLen(header []byte) (int, error) {
	funcCode := header[1]
	if funcCode&exceptionFlag != 0 {
		return 5, nil // addr, func|0x80, exception code, crc16
	}
	switch funcCode {
	case funcReadHoldingRegisters:
		byteCount := int(header[2])
		return 3 + byteCount + 2, nil
	case funcWriteSingleRegister, funcWriteMultipleRegisters:
		return 8, nil
	default:
		return 0, errcode.New(errcode.ModbusFrame, "modbus.guessResponseFrameLen", fmt.Sprintf("unknown function code 0x%02x", funcCode))
	}
}
