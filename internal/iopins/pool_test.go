package iopins

import "testing"

func TestResolveKeepsConfiguredPinsWhenFree(t *testing.T) {
	pool := NewPool(26)
	cfg, fellBack, err := Resolve(pool, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if fellBack {
		t.Error("should not fall back when configured pins are free")
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestResolveFallsBackWhenPinTaken(t *testing.T) {
	pool := NewPool(26)
	pool.Reserve(18) // configured TX pin already used for something else
	cfg, fellBack, err := Resolve(pool, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !fellBack {
		t.Error("expected fallback when a configured pin is taken")
	}
	if cfg.ModbusTX == 18 {
		t.Error("fallback should not reuse the taken pin")
	}
	if cfg.ModbusTX >= cfg.ModbusRX || cfg.ModbusRX >= cfg.ModbusDERE {
		t.Errorf("fallback should claim in ascending index order, got %+v", cfg)
	}
}

func TestResolveExhaustion(t *testing.T) {
	pool := NewPool(2)
	_, _, err := Resolve(pool, Config{ModbusTX: 10, ModbusRX: 11, ModbusDERE: 12})
	if err == nil {
		t.Fatal("expected error when fewer than 3 pins are available")
	}
}

func TestClaimFirstFreeExhausted(t *testing.T) {
	pool := NewPool(1)
	if _, err := pool.ClaimFirstFree(); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.ClaimFirstFree(); err == nil {
		t.Error("expected error on exhausted pool")
	}
}
