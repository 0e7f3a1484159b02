package settings

import (
	"errors"
	"fmt"

	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/logging"
	"github.com/muurk/watchface/internal/persist"
	"go.uber.org/zap"
)

// Store owns the single in-memory Settings record and its persisted copy.
type Store struct {
	storage  persist.Storage
	platform display.Platform
	current  Settings
	onSave   func(Settings)
}

// NewStore creates a store holding the platform defaults. Call Load to pick
// up persisted values.
func NewStore(storage persist.Storage, platform display.Platform) *Store {
	s := &Store{storage: storage, platform: platform}
	s.LoadDefaults()
	return s
}

// OnSave registers a hook that runs after every Save. The lifecycle
// controller uses it to refresh the display.
func (s *Store) OnSave(fn func(Settings)) {
	s.onSave = fn
}

// Current returns a pointer to the live record. Callers mutate it in place
// and then call Save.
func (s *Store) Current() *Settings {
	return &s.current
}

// DisplayOptions implements display.OptionsSource.
func (s *Store) DisplayOptions() display.Options {
	return s.current.DisplayOptions()
}

// LoadDefaults resets the in-memory record to the built-in configuration.
func (s *Store) LoadDefaults() {
	s.current = Defaults(s.platform)
}

// Load resets to defaults and then overlays the persisted record if one of
// the expected shape exists. Any failure keeps the defaults.
func (s *Store) Load() {
	s.LoadDefaults()

	data, err := s.storage.Read(Key)
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			logging.Debug("No stored settings, using defaults")
		} else {
			logging.Warn("Failed to read stored settings, using defaults", zap.Error(err))
		}
		return
	}
	logging.LogRawBytes("Stored settings record", data)

	var loaded Settings
	if err := loaded.UnmarshalBinary(data); err != nil {
		logging.Warn("Ignoring stored settings", zap.Error(err))
		return
	}
	s.current = loaded
	logging.Info("Settings loaded", zap.Any("settings", s.current.Fields()))
}

// Save writes the in-memory record to storage and then runs the on-save
// hook. The hook runs even when the write fails so the display always
// matches memory.
func (s *Store) Save() error {
	data, _ := s.current.MarshalBinary()

	var err error
	if werr := s.storage.Write(Key, data); werr != nil {
		err = fmt.Errorf("failed to persist settings: %w", werr)
		logging.Error("Failed to save settings", zap.Error(werr))
	} else {
		logging.Debug("Settings saved", zap.Uint32("key", Key), zap.Int("bytes", len(data)))
	}

	if s.onSave != nil {
		s.onSave(s.current)
	}
	return err
}
