//go:build mcu

// Command ossmd-mcu is the on-device build: the same pin/Modbus/motor
// bring-up as cmd/ossmd, but over the TinyGo `machine`/tinygo-uartx
// stack and an in-memory store instead of bbolt, with no HTTP surface
// (there is no network stack to serve it on), matching the teacher's
// separate-binary split between its host and pico-hal-main commands.
package main

import (
	"time"

	"ossm-go/internal/appctx"
	"ossm-go/internal/iopins"
	"ossm-go/internal/modbus"
	"ossm-go/internal/motion"
	"ossm-go/internal/motor"
	"ossm-go/internal/serialport"
	"ossm-go/internal/store"
)

const (
	targetBaud      = 115200
	gpioPinCount    = 28
	motorCycleEvery = 20 * time.Millisecond
)

func main() {
	time.Sleep(3 * time.Second) // let USB/clocks settle, matching pico-hal-main

	st := store.OpenMemory()
	pins := iopins.NewPool(gpioPinCount)
	app := appctx.New(st, pins)

	println("[ossmd-mcu] bringing up motor …")
	if err := runMotor(app); err != nil {
		println("[ossmd-mcu] motor bring-up failed:", err.Error())
	}

	for {
		println("[ossmd-mcu] halted, retrying in 10s")
		time.Sleep(10 * time.Second)
	}
}

func runMotor(app *appctx.Context) error {
	pinCfg, err := app.Store.GetPinConfiguration()
	if err != nil {
		pinCfg = iopins.DefaultConfig()
	}
	resolved, fellBack, err := iopins.Resolve(app.Pins, pinCfg)
	if err != nil {
		return err
	}
	if fellBack {
		if err := app.Store.SetPinConfiguration(resolved); err != nil {
			println("[ossmd-mcu] failed to save pin configuration:", err.Error())
		}
	}

	dePin, err := iopins.OpenOutput(resolved.ModbusDERE)
	if err != nil {
		return err
	}

	port, err := serialport.OpenUART1(targetBaud)
	if err != nil {
		return err
	}

	master, err := modbus.NewMaster(port, dePin, 1, targetBaud)
	if err != nil {
		return err
	}

	if err := master.EnableCommunication(); err != nil {
		println("[ossmd-mcu] failed to enable modbus, scanning …")
		result, err := master.Scan()
		if err != nil {
			return err
		}
		master.SetDeviceID(result.DeviceID)
		if result.Baud != targetBaud {
			if err := master.SetMotorBaudRate(targetBaud); err != nil {
				return err
			}
		}
		if err := master.EnableCommunication(); err != nil {
			return err
		}
	}

	motorConfig, err := app.Store.GetMotorConfig()
	if err != nil {
		motorConfig = motion.DefaultConfig()
		if err := app.Store.SetMotorConfig(motorConfig); err != nil {
			println("[ossmd-mcu] failed to save default motor config:", err.Error())
		}
	}

	drive := motor.New(master)
	ctrl, err := motion.New(drive, motorConfig)
	if err != nil {
		return err
	}
	if err := ctrl.InitMotor(); err != nil {
		return err
	}
	app.SetController(ctrl)

	println("[ossmd-mcu] motor initialized, starting motion loop")
	for {
		if err := ctrl.Cycle(motorCycleEvery.Seconds()); err != nil {
			println("[ossmd-mcu] cycle failed:", err.Error())
		}
		time.Sleep(motorCycleEvery)
	}
}
