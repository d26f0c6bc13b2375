// Package store persists pin wiring, wifi credentials, and the live motor
// configuration across restarts, behind a small byte-oriented Backend so
// the host build can use a real embedded database while the MCU build
// falls back to memory.
package store

import (
	"encoding/json"

	"ossm-go/errcode"
	"ossm-go/internal/iopins"
	"ossm-go/internal/motion"
)

const (
	keyMotorConfig = "motor_config"
	keyPinConfig   = "pin_configuration"
	keySSID        = "ssid"
	keyPassword    = "password"
)

// Backend is the minimal KV contract a Store is built on. Get returns
// errcode.StoreMissing when key is absent.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Store layers typed JSON accessors over a Backend.
type Store struct {
	backend Backend
}

// New wraps backend in a Store.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) getJSON(key string, v any) error {
	raw, err := s.backend.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errcode.Wrap(errcode.StoreIO, "store.getJSON", err)
	}
	return nil
}

func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errcode.Wrap(errcode.StoreIO, "store.setJSON", err)
	}
	return s.backend.Set(key, raw)
}

// GetMotorConfig loads the persisted motor configuration.
func (s *Store) GetMotorConfig() (motion.MotorControllerConfig, error) {
	var cfg motion.MotorControllerConfig
	err := s.getJSON(keyMotorConfig, &cfg)
	return cfg, err
}

// SetMotorConfig clamps cfg to its persisted range and saves it. This is
// the only place a MotorControllerConfig is clamped; the controller
// itself trusts its caller.
func (s *Store) SetMotorConfig(cfg motion.MotorControllerConfig) error {
	return s.setJSON(keyMotorConfig, cfg.Clamped())
}

// GetPinConfiguration loads the persisted GPIO wiring.
func (s *Store) GetPinConfiguration() (iopins.Config, error) {
	var cfg iopins.Config
	err := s.getJSON(keyPinConfig, &cfg)
	return cfg, err
}

// SetPinConfiguration saves the GPIO wiring.
func (s *Store) SetPinConfiguration(cfg iopins.Config) error {
	return s.setJSON(keyPinConfig, cfg)
}

// GetSSID loads the stored wifi SSID.
func (s *Store) GetSSID() (string, error) {
	raw, err := s.backend.Get(keySSID)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetSSID saves the wifi SSID.
func (s *Store) SetSSID(ssid string) error {
	return s.backend.Set(keySSID, []byte(ssid))
}

// GetPassword loads the stored wifi password.
func (s *Store) GetPassword() (string, error) {
	raw, err := s.backend.Get(keyPassword)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetPassword saves the wifi password.
func (s *Store) SetPassword(password string) error {
	return s.backend.Set(keyPassword, []byte(password))
}
