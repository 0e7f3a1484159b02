package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "persist" // key: big-endian uint32 -> raw record

// ErrLocked is returned by OpenBolt when another process holds the database.
var ErrLocked = errors.New("persist: database is locked")

// Bolt is a Storage backed by a bbolt database file.
type Bolt struct {
	db   *bbolt.DB
	path string
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &Bolt{db: db, path: path}, nil
}

// Path returns the database file location.
func (b *Bolt) Path() string { return b.path }

func (b *Bolt) Read(key uint32) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get(encodeKey(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bolt) Write(key uint32, data []byte) error {
	if err := checkSize(data); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put(encodeKey(key), data)
	})
}

func (b *Bolt) Delete(key uint32) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete(encodeKey(key))
	})
}

func (b *Bolt) Exists(key uint32) bool {
	found := false
	_ = b.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket([]byte(boltBucket)).Get(encodeKey(key)) != nil
		return nil
	})
	return found
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
