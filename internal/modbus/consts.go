package modbus

import (
	"time"

	"ossm-go/errcode"
)

const (
	funcReadHoldingRegisters   byte = 0x03
	funcWriteSingleRegister    byte = 0x06
	funcWriteMultipleRegisters byte = 0x10
	exceptionFlag              byte = 0x80
)

// minResponseBufferLen is the minimum scratch buffer size for a response,
// kept fixed-size to avoid heap allocation on the hot exchange path.
const minResponseBufferLen = 256

// deSettle is the settle time required before/after flipping the DE/RE
// line around an exchange.
const deSettle = 10 * time.Microsecond

var scanBauds = [...]int{115200, 9600, 19200, 38400}

// operationTimeout derives the per-operation timeout from baud rate. Other
// baud rates are rejected outright.
func operationTimeout(baud int) (time.Duration, error) {
	switch baud {
	case 9600:
		return time.Second / 10, nil
	case 19200:
		return time.Second / 20, nil
	case 38400:
		return time.Second / 40, nil
	case 115200:
		return time.Second / 200, nil
	default:
		return 0, errcode.New(errcode.ConfigOutOfRange, "modbus.operationTimeout", "invalid baud rate")
	}
}

// baudCode maps a baud rate to the 57AIM30's register-level baud code.
func baudCode(baud int) (uint16, error) {
	switch baud {
	case 9600:
		return 800, nil
	case 19200:
		return 801, nil
	case 38400:
		return 802, nil
	case 115200:
		return 803, nil
	default:
		return 0, errcode.New(errcode.ConfigOutOfRange, "modbus.baudCode", "invalid baud rate")
	}
}
