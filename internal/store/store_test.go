package store

import (
	"testing"

	"ossm-go/errcode"
	"ossm-go/internal/iopins"
	"ossm-go/internal/motion"
)

type fakeBackend struct {
	data map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string][]byte)}
}

func (f *fakeBackend) Get(key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, errcode.New(errcode.StoreMissing, "fakeBackend.Get", key)
	}
	return v, nil
}

func (f *fakeBackend) Set(key string, value []byte) error {
	f.data[key] = value
	return nil
}

func TestMotorConfigRoundTrip(t *testing.T) {
	s := New(newFakeBackend())
	cfg := motion.DefaultConfig()
	cfg.BPM = 42
	if err := s.SetMotorConfig(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetMotorConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got.BPM != 42 {
		t.Errorf("bpm = %v, want 42", got.BPM)
	}
}

func TestMotorConfigClampedOnSave(t *testing.T) {
	s := New(newFakeBackend())
	cfg := motion.DefaultConfig()
	cfg.BPM = 10000
	cfg.Depth = -5
	if err := s.SetMotorConfig(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetMotorConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got.BPM != 500 {
		t.Errorf("bpm = %v, want clamped 500", got.BPM)
	}
	if got.Depth != 0 {
		t.Errorf("depth = %v, want clamped 0", got.Depth)
	}
}

func TestPinConfigurationRoundTrip(t *testing.T) {
	s := New(newFakeBackend())
	cfg := iopins.Config{ModbusTX: 1, ModbusRX: 2, ModbusDERE: 3}
	if err := s.SetPinConfiguration(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetPinConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("pin configuration = %+v, want %+v", got, cfg)
	}
}

func TestMissingKeyReturnsStoreMissing(t *testing.T) {
	s := New(newFakeBackend())
	_, err := s.GetMotorConfig()
	if errcode.Of(err) != errcode.StoreMissing {
		t.Errorf("code = %v, want StoreMissing", errcode.Of(err))
	}
}

func TestSSIDAndPasswordRoundTrip(t *testing.T) {
	s := New(newFakeBackend())
	if err := s.SetSSID("my-network"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPassword("hunter2"); err != nil {
		t.Fatal(err)
	}
	ssid, err := s.GetSSID()
	if err != nil {
		t.Fatal(err)
	}
	if ssid != "my-network" {
		t.Errorf("ssid = %q, want %q", ssid, "my-network")
	}
	password, err := s.GetPassword()
	if err != nil {
		t.Fatal(err)
	}
	if password != "hunter2" {
		t.Errorf("password = %q, want %q", password, "hunter2")
	}
}
