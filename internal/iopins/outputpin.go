package iopins

// OutputPin is a level-driven GPIO output, used to drive an RS-485
// transceiver's DE/RE line around a Modbus exchange.
type OutputPin interface {
	Set(high bool) error
}
