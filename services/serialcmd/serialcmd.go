// Package serialcmd implements the line-oriented command console exposed
// over the serial/USB link: wifi credentials, pin wiring, and every
// motor-config field, plus pause/start.
package serialcmd

import (
	"strconv"
	"strings"

	"github.com/google/shlex"

	"ossm-go/internal/appctx"
	"ossm-go/internal/iopins"
	"ossm-go/internal/motion"
	"ossm-go/internal/waveform"
	"ossm-go/x/logx"
)

// Dispatcher parses and executes one command line at a time.
type Dispatcher struct {
	app *appctx.Context
	log *logx.Logger
}

// New builds a Dispatcher over app, logging through log.
func New(app *appctx.Context, log *logx.Logger) *Dispatcher {
	return &Dispatcher{app: app, log: log}
}

// Handle parses and executes a single command line. Failures are logged,
// not returned: a bad command should not stop the console loop.
//
// set_motor_config takes the remainder of the line verbatim as a JSON
// object (it is not shlex-tokenized, since a bare JSON blob is not valid
// shell-style input); every other command's arguments are shlex-split so
// a wifi SSID or password containing spaces can be quoted.
func (d *Dispatcher) Handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	d.log.Printf("command: %s", line)

	head := strings.SplitN(line, " ", 2)
	cmd := head[0]
	rest := ""
	if len(head) > 1 {
		rest = strings.TrimSpace(head[1])
	}

	if cmd == "set_motor_config" {
		d.setMotorConfig(rest)
		return
	}

	var args []string
	if rest != "" {
		fields, err := shlex.Split(rest)
		if err != nil {
			d.log.Printf("unparseable command: %s", line)
			return
		}
		args = fields
	}

	switch cmd {
	case "help":
		d.help()
	case "set_wifi_ssid":
		d.setWifi(args, d.app.Store.SetSSID, "SSID")
	case "set_wifi_password":
		d.setWifi(args, d.app.Store.SetPassword, "password")
	case "set_pin_modbus_tx":
		d.setPin(args, func(c *iopins.Config, v uint32) { c.ModbusTX = v }, "TX")
	case "set_pin_modbus_rx":
		d.setPin(args, func(c *iopins.Config, v uint32) { c.ModbusRX = v }, "RX")
	case "set_pin_modbus_de_re":
		d.setPin(args, func(c *iopins.Config, v uint32) { c.ModbusDERE = v }, "DE/RE")
	case "get_pin_configuration":
		d.getPinConfiguration()
	case "get_motor_config":
		d.getMotorConfig()
	case "pause":
		d.setPaused(true, "paused")
	case "start":
		d.setPaused(false, "started")
	case "set_bpm":
		d.setFloatField(args, "BPM", func(c *motion.MotorControllerConfig, v float64) { c.BPM = v })
	case "set_wave":
		d.setWave(args)
	case "set_paused_position":
		d.setFloatField(args, "paused position", func(c *motion.MotorControllerConfig, v float64) { c.PausedPosition = v })
	case "set_depth":
		d.setFloatField(args, "depth", func(c *motion.MotorControllerConfig, v float64) { c.Depth = v })
	case "set_depth_top":
		d.setDepthTop(args)
	case "set_sharpness":
		d.setFloatField(args, "sharpness", func(c *motion.MotorControllerConfig, v float64) { c.Sharpness = v })
	case "set_spline_points":
		d.setSplinePoints(args)
	default:
		d.log.Printf("unknown command: %s", cmd)
	}
}

func (d *Dispatcher) help() {
	lines := []string{
		"available commands:",
		"  help                            - show this help message",
		"  set_wifi_ssid <ssid>            - set wifi SSID",
		"  set_wifi_password <password>    - set wifi password",
		"  get_pin_configuration           - get pin configuration in JSON",
		"  set_pin_modbus_tx <pin>         - set Modbus TX pin",
		"  set_pin_modbus_rx <pin>         - set Modbus RX pin",
		"  set_pin_modbus_de_re <pin>      - set Modbus DE/RE pin",
		"  get_motor_config                - get motor config in JSON",
		"  set_motor_config <json>         - set motor config from a JSON string",
		"  pause                           - pause the motor",
		"  start                           - start the motor",
		"  set_bpm <bpm>                   - set motor BPM",
		"  set_wave <sine|thrust|spline>   - set motor waveform",
		"  set_paused_position <position>  - set motor position when paused (0-1)",
		"  set_depth <depth>               - set motor stroke depth (0-1)",
		"  set_depth_top <true|false>      - set depth direction",
		"  set_sharpness <sharpness>       - set sharpness for thrust wave (0.01-0.99)",
		"  set_spline_points <p1> <p2> ... - set points for spline wave (0-1)",
	}
	for _, l := range lines {
		d.log.Printf("%s", l)
	}
}

func (d *Dispatcher) setWifi(args []string, set func(string) error, label string) {
	value := strings.Join(args, " ")
	if err := set(value); err != nil {
		d.log.Printf("failed to save %s: %v", label, err)
		return
	}
	d.log.Printf("%s saved, restart to apply", label)
}

func (d *Dispatcher) setPin(args []string, apply func(*iopins.Config, uint32), label string) {
	if len(args) != 1 {
		d.log.Printf("invalid pin value")
		return
	}
	pin, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		d.log.Printf("invalid pin value: %s", args[0])
		return
	}
	cfg, err := d.app.Store.GetPinConfiguration()
	if err != nil {
		cfg = iopins.DefaultConfig()
	}
	apply(&cfg, uint32(pin))
	if err := d.app.Store.SetPinConfiguration(cfg); err != nil {
		d.log.Printf("failed to save pin configuration: %v", err)
		return
	}
	d.log.Printf("Modbus %s pin set to %d, restart to apply", label, pin)
}

func (d *Dispatcher) getPinConfiguration() {
	cfg, err := d.app.Store.GetPinConfiguration()
	if err != nil {
		d.log.Printf("failed to get pin configuration: %v", err)
		return
	}
	d.log.Printf("%+v", cfg)
}

func (d *Dispatcher) setMotorConfig(jsonArg string) {
	cfg, err := parseMotorConfig(jsonArg)
	if err != nil {
		d.log.Printf("failed to parse motor config: %v", err)
		return
	}
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("motor config updated")
}

func (d *Dispatcher) getMotorConfig() {
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	d.log.Printf("%+v", ctrl.Config())
}

func (d *Dispatcher) setPaused(paused bool, verb string) {
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	cfg := ctrl.Config()
	cfg.Paused = paused
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("motor %s", verb)
}

func (d *Dispatcher) setFloatField(args []string, label string, apply func(*motion.MotorControllerConfig, float64)) {
	if len(args) != 1 {
		d.log.Printf("invalid %s value", label)
		return
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		d.log.Printf("invalid %s value: %s", label, args[0])
		return
	}
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	cfg := ctrl.Config()
	apply(&cfg, v)
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("%s set to %v", label, v)
}

func (d *Dispatcher) setWave(args []string) {
	if len(args) != 1 {
		d.log.Printf("invalid wave function")
		return
	}
	kind := waveform.Kind(args[0])
	if kind != waveform.Sine && kind != waveform.Thrust && kind != waveform.Spline {
		d.log.Printf("invalid wave function: %s. use 'sine', 'thrust' or 'spline'", args[0])
		return
	}
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	cfg := ctrl.Config()
	cfg.WaveFunc = kind
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("wave function set to %s", kind)
}

func (d *Dispatcher) setDepthTop(args []string) {
	if len(args) != 1 {
		d.log.Printf("invalid boolean value. use 'true' or 'false'")
		return
	}
	v, err := strconv.ParseBool(args[0])
	if err != nil {
		d.log.Printf("invalid boolean value: %s. use 'true' or 'false'", args[0])
		return
	}
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	cfg := ctrl.Config()
	cfg.DepthTop = v
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("depth top set to %v", v)
}

func (d *Dispatcher) setSplinePoints(args []string) {
	if len(args) == 0 {
		d.log.Printf("spline points cannot be empty")
		return
	}
	points := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			d.log.Printf("invalid spline points value: %s", a)
			return
		}
		if v < 0 || v > 1 {
			d.log.Printf("spline points must be between 0.0 and 1.0")
			return
		}
		points[i] = v
	}
	ctrl := d.app.Controller()
	if ctrl == nil {
		d.log.Printf("motor controller not initialized")
		return
	}
	cfg := ctrl.Config()
	cfg.SplinePoints = points
	if err := ctrl.SetConfig(cfg); err != nil {
		d.log.Printf("failed to set motor config: %v", err)
		return
	}
	d.log.Printf("spline points set to %v", points)
}
