package main

import (
	"errors"
	"fmt"

	"github.com/muurk/watchface/internal/persist"
	"github.com/muurk/watchface/internal/settings"
)

// openStorage opens the configured settings database.
func openStorage() (*persist.Bolt, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	storage, err := persist.OpenBolt(path)
	if errors.Is(err, persist.ErrLocked) {
		return nil, fmt.Errorf("%w (is the watch running?)", err)
	}
	return storage, err
}

// snapshotSettings copies the stored settings record into memory so the
// database is not held open.
func snapshotSettings() (*persist.Memory, error) {
	storage, err := openStorage()
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	mem := persist.NewMemory()
	data, err := storage.Read(settings.Key)
	if errors.Is(err, persist.ErrNotFound) {
		return mem, nil
	}
	if err != nil {
		return nil, err
	}
	if err := mem.Write(settings.Key, data); err != nil {
		return nil, err
	}
	return mem, nil
}
