// Package persist is the watch's persistent key-value storage: small binary
// records addressed by a numeric key.
package persist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// MaxValueSize is the largest record a single key can hold.
const MaxValueSize = 256

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("persist: key not found")
	// ErrValueTooLarge is returned when writing more than MaxValueSize bytes.
	ErrValueTooLarge = errors.New("persist: value too large")
)

// Storage reads and writes records by key.
type Storage interface {
	Read(key uint32) ([]byte, error)
	Write(key uint32, data []byte) error
	Delete(key uint32) error
	Exists(key uint32) bool
	Close() error
}

func encodeKey(key uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, key)
	return b
}

func checkSize(data []byte) error {
	if len(data) > MaxValueSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrValueTooLarge, len(data), MaxValueSize)
	}
	return nil
}

// Memory is a Storage that lives only for the process lifetime.
type Memory struct {
	mu     sync.Mutex
	values map[uint32][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[uint32][]byte)}
}

func (m *Memory) Read(key uint32) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Write(key uint32, data []byte) error {
	if err := checkSize(data); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(key uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Exists(key uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

func (m *Memory) Close() error { return nil }
