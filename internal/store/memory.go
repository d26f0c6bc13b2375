//go:build mcu

package store

import "ossm-go/errcode"

// memBackend keeps the KV set in RAM. No flash-backed KV library exists
// in the dependency pack for TinyGo targets, so the MCU build trades
// persistence-across-power-cycles for a working store.
type memBackend struct {
	data map[string][]byte
}

// OpenMemory returns a Store backed by an empty in-memory map.
func OpenMemory() *Store {
	return New(&memBackend{data: make(map[string][]byte)})
}

func (m *memBackend) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errcode.New(errcode.StoreMissing, "store.Get", key)
	}
	return v, nil
}

func (m *memBackend) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}
