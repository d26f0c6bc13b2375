//go:build mcu

package serialport

import (
	"github.com/jangala-dev/tinygo-uartx/uartx"

	"ossm-go/errcode"
)

// mcuPort wraps a tinygo-uartx UART. Direction control for RS-485 is left
// to the caller (internal/iopins' OutputPin over the DE/RE pin), matching
// the Modbus master's own optional-pin exchange logic.
type mcuPort struct {
	u *uartx.UART
}

// OpenUART1 configures and returns uartx.UART1 at the given baud.
func OpenUART1(baud int) (Port, error) {
	u := uartx.UART1
	if err := u.Configure(uartx.UARTConfig{BaudRate: uint32(baud)}); err != nil {
		return nil, errcode.Wrap(errcode.PinUnavailable, "serialport.OpenUART1", err)
	}
	return &mcuPort{u: u}, nil
}

func (p *mcuPort) Read(b []byte) (int, error)  { return p.u.Read(b) }
func (p *mcuPort) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *mcuPort) SetBaud(baud int) error {
	p.u.SetBaudRate(uint32(baud))
	return nil
}
