//go:build !mcu

package store

import (
	"go.etcd.io/bbolt"

	"ossm-go/errcode"
)

var bucketName = []byte("ossm")

// boltBackend persists the KV set in a single bbolt bucket.
type boltBackend struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if absent) a bbolt database at path and returns
// a Store backed by it.
func OpenBolt(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errcode.Wrap(errcode.StoreIO, "store.OpenBolt", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.StoreIO, "store.OpenBolt", err)
	}
	return New(&boltBackend{db: db}), nil
}

func (b *boltBackend) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return errcode.New(errcode.StoreMissing, "store.Get", key)
		}
		out = append(out, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *boltBackend) Set(key string, value []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return errcode.Wrap(errcode.StoreIO, "store.Set", err)
	}
	return nil
}

// Close releases the underlying database file.
func (b *boltBackend) Close() error { return b.db.Close() }
