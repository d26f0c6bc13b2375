// Command ossmd is the firmware entry point: it wires the pin pool,
// storage, Modbus link, and motor controller together, then runs the
// motion, HTTP, and serial command loops concurrently.
package main

import (
	"net/http"
	"os"
	"time"

	"ossm-go/internal/appctx"
	"ossm-go/internal/iopins"
	"ossm-go/internal/modbus"
	"ossm-go/internal/motion"
	"ossm-go/internal/motor"
	"ossm-go/internal/serialport"
	"ossm-go/internal/store"
	"ossm-go/services/httpapi"
	"ossm-go/x/logx"
)

const (
	targetBaud      = 115200
	gpioPinCount    = 28
	httpAddr        = ":80"
	configSaveEvery = 200 * time.Millisecond
	tickLogEvery    = 60 * time.Second
	motorCycleEvery = 20 * time.Millisecond
)

func main() {
	log := logx.New(os.Stderr, "ossmd")

	st, err := store.OpenBolt("ossm.db")
	if err != nil {
		log.Printf("failed to open store: %v", err)
		haltLoop(log)
	}

	pins := iopins.NewPool(gpioPinCount)
	app := appctx.New(st, pins)

	go serialConsoleLoop(app, log.With("serial"))

	httpLog := log.With("http")
	srv := httpapi.NewServer(app, httpLog, []byte(indexHTML))
	go func() {
		httpLog.Printf("listening on %s", httpAddr)
		if err := http.ListenAndServe(httpAddr, srv.Handler); err != nil {
			httpLog.Printf("server stopped: %v", err)
		}
	}()

	motionLog := log.With("motion")
	if err := runMotor(app, motionLog); err != nil {
		motionLog.Printf("motor task failed: %v", err)
	}

	haltLoop(log)
}

func haltLoop(log *logx.Logger) {
	for {
		log.Printf("system halted, retrying in 10s")
		time.Sleep(10 * time.Second)
	}
}

// runMotor brings the Modbus link and motor up, then runs the cycle loop
// forever (or until the controller is unrecoverably lost).
func runMotor(app *appctx.Context, log *logx.Logger) error {
	pinCfg, err := app.Store.GetPinConfiguration()
	if err != nil {
		pinCfg = iopins.DefaultConfig()
	}
	resolved, fellBack, err := iopins.Resolve(app.Pins, pinCfg)
	if err != nil {
		return err
	}
	if fellBack {
		log.Printf("configured pins unavailable, using tx=%d rx=%d de_re=%d",
			resolved.ModbusTX, resolved.ModbusRX, resolved.ModbusDERE)
		if err := app.Store.SetPinConfiguration(resolved); err != nil {
			log.Printf("failed to save pin configuration: %v", err)
		}
	} else {
		log.Printf("using configured pins tx=%d rx=%d de_re=%d",
			resolved.ModbusTX, resolved.ModbusRX, resolved.ModbusDERE)
	}

	port, err := serialport.Open("/dev/ttyUSB0", targetBaud)
	if err != nil {
		return err
	}

	dePin, err := iopins.OpenOutput(resolved.ModbusDERE)
	if err != nil {
		return err
	}

	master, err := modbus.NewMaster(port, dePin, 1, targetBaud)
	if err != nil {
		return err
	}

	if err := master.EnableCommunication(); err != nil {
		log.Printf("failed to enable modbus, scanning: %v", err)
		result, err := master.Scan()
		if err != nil {
			return err
		}
		log.Printf("motor found: baud=%d device_id=%d", result.Baud, result.DeviceID)
		master.SetDeviceID(result.DeviceID)
		if result.Baud != targetBaud {
			if err := master.SetMotorBaudRate(targetBaud); err != nil {
				return err
			}
			log.Printf("motor baud set to %d, power cycle required", targetBaud)
		}
		if err := master.EnableCommunication(); err != nil {
			return err
		}
	}

	motorConfig, err := app.Store.GetMotorConfig()
	if err != nil {
		log.Printf("no motor config in store, using default")
		motorConfig = motion.DefaultConfig()
		if err := app.Store.SetMotorConfig(motorConfig); err != nil {
			log.Printf("failed to save default motor config: %v", err)
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
	log.Printf("motor initialized, starting motion loop")

	lastConfigCheck := time.Now()
	lastSavedVersion := ctrl.ConfigVersion()
	lastTickReset := time.Now()
	ticks := 0

	for {
		if time.Since(lastConfigCheck) > configSaveEvery {
			lastConfigCheck = time.Now()
			if v := ctrl.ConfigVersion(); v != lastSavedVersion {
				if err := app.Store.SetMotorConfig(ctrl.Config()); err != nil {
					log.Printf("failed to save motor config: %v", err)
				} else {
					lastSavedVersion = v
				}
			}
		}

		if err := ctrl.Cycle(motorCycleEvery.Seconds()); err != nil {
			log.Printf("cycle failed: %v", err)
		}

		ticks++
		if time.Since(lastTickReset) > tickLogEvery {
			log.Printf("motion ticks/sec: %.1f", float64(ticks)/tickLogEvery.Seconds())
			lastTickReset = time.Now()
			ticks = 0
		}

		time.Sleep(motorCycleEvery)
	}
}

const indexHTML = `<!doctype html><html><head><title>ossm</title></head><body><p>ossm motor control</p></body></html>`
