package errcode

// Code is a stable error identifier shared across the motion, modbus, store,
// and API layers. It is a string newtype, comparable, allocation-free, and
// implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes, one per spec error kind.
const (
	OK Code = "ok"

	ConfigParse      Code = "config_parse"
	ConfigOutOfRange Code = "config_out_of_range"
	MotorUninitialized Code = "motor_uninitialized"
	ModbusTimeout    Code = "modbus_timeout"
	ModbusFrame      Code = "modbus_frame"
	ModbusNoDevice   Code = "modbus_no_device"
	HomingUnstable   Code = "homing_unstable"
	PinUnavailable   Code = "pin_unavailable"
	StoreMissing     Code = "store_missing"
	StoreIO          Code = "store_io"

	Error Code = "error" // generic fallback
)

// E wraps a Code with an operation name, a human message, and an optional
// underlying cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := e.Op + ": " + string(e.C)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E with the given code, operation, and message.
func New(c Code, op, msg string) *E {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap builds an *E around an existing error, preserving it for Unwrap.
func Wrap(c Code, op string, err error) *E {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
