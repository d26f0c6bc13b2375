// Package serialport abstracts the half-duplex RS-485 UART the Modbus
// master writes requests to and reads responses from, with a host build
// (goburrow/serial) and an MCU build (tinygo-uartx) behind the same interface.
package serialport

// Port is the minimal surface the Modbus master needs: byte-oriented I/O
// plus the ability to change baud rate live (the motor driver reprograms
// its own baud rate and then expects the link to follow).
type Port interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	SetBaud(baud int) error
}
