package serialcmd

import (
	"encoding/json"

	"ossm-go/internal/motion"
)

func parseMotorConfig(raw string) (motion.MotorControllerConfig, error) {
	var cfg motion.MotorControllerConfig
	err := json.Unmarshal([]byte(raw), &cfg)
	return cfg, err
}
