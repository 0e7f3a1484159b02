package settings

import (
	"errors"
	"testing"

	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/persist"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name     string
		platform display.Platform
		topBG    display.Color
		topFG    display.Color
	}{
		{"color platform", display.Basalt, display.ColorRed, display.ColorWhite},
		{"round color platform", display.Chalk, display.ColorRed, display.ColorWhite},
		{"black and white platform", display.Aplite, display.ColorWhite, display.ColorBlack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults(tt.platform)

			if s.BackgroundColor != display.ColorBlack {
				t.Errorf("BackgroundColor = %v, want black", s.BackgroundColor)
			}
			if s.HourColor != display.ColorWhite || s.MinColor != display.ColorWhite {
				t.Errorf("time colors = %v/%v, want white/white", s.HourColor, s.MinColor)
			}
			if s.CalendarTopBGColor != tt.topBG {
				t.Errorf("CalendarTopBGColor = %v, want %v", s.CalendarTopBGColor, tt.topBG)
			}
			if s.CalendarTopFGColor != tt.topFG {
				t.Errorf("CalendarTopFGColor = %v, want %v", s.CalendarTopFGColor, tt.topFG)
			}
			if s.CalendarBottomBGColor != display.ColorWhite || s.CalendarBottomFGColor != display.ColorBlack {
				t.Errorf("bottom calendar = %v on %v, want black on white",
					s.CalendarBottomFGColor, s.CalendarBottomBGColor)
			}
			if !s.UseMilitaryTime {
				t.Error("UseMilitaryTime should default to true")
			}
			if s.ShowMonth {
				t.Error("ShowMonth should default to false")
			}
			if s.VibeHour {
				t.Error("VibeHour should default to false")
			}
		})
	}
}

func TestMarshalBinary_Layout(t *testing.T) {
	s := Settings{
		BackgroundColor:       0x01,
		HourColor:             0x02,
		MinColor:              0x03,
		CalendarTopBGColor:    0x04,
		CalendarBottomBGColor: 0x05,
		CalendarTopFGColor:    0x06,
		CalendarBottomFGColor: 0x07,
		ShowMonth:             true,
		VibeHour:              false,
		UseMilitaryTime:       true,
	}

	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 1, 0, 1}
	if string(data) != string(want) {
		t.Errorf("MarshalBinary() = %v, want %v", data, want)
	}
}

func TestUnmarshalBinary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrRecordSize},
		{"too short", []byte{1, 2, 3}, ErrRecordSize},
		{"too long", make([]byte, RecordSize+1), ErrRecordSize},
		{"bad flag", []byte{0, 0, 0, 0, 0, 0, 0, 2, 0, 0}, ErrRecordCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults(display.Basalt)
			before := s

			err := s.UnmarshalBinary(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UnmarshalBinary() error = %v, want %v", err, tt.wantErr)
			}
			if s != before {
				t.Error("UnmarshalBinary() modified settings on error")
			}
		})
	}
}

func TestStore_LoadEmptyYieldsDefaults(t *testing.T) {
	store := NewStore(persist.NewMemory(), display.Basalt)
	store.Current().ShowMonth = true

	store.Load()

	if *store.Current() != Defaults(display.Basalt) {
		t.Errorf("Load() from empty storage = %+v, want defaults", *store.Current())
	}
}

func TestStore_LoadIgnoresBadRecords(t *testing.T) {
	records := map[string][]byte{
		"wrong size": {0xFF, 0xFF},
		"corrupt":    {0xC0, 0xFF, 0xFF, 0xF0, 0xFF, 0xFF, 0xC0, 9, 9, 9},
	}

	for name, record := range records {
		t.Run(name, func(t *testing.T) {
			mem := persist.NewMemory()
			if err := mem.Write(Key, record); err != nil {
				t.Fatal(err)
			}

			store := NewStore(mem, display.Basalt)
			store.Load()

			if *store.Current() != Defaults(display.Basalt) {
				t.Errorf("Load() = %+v, want defaults", *store.Current())
			}
		})
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	mem := persist.NewMemory()
	store := NewStore(mem, display.Basalt)

	cur := store.Current()
	cur.BackgroundColor = display.ColorBlue
	cur.HourColor = display.ColorYellow
	cur.MinColor = display.ColorCyan
	cur.CalendarTopBGColor = display.ColorGreen
	cur.CalendarTopFGColor = display.ColorBlack
	cur.CalendarBottomBGColor = display.ColorMagenta
	cur.CalendarBottomFGColor = display.ColorWhite
	cur.ShowMonth = true
	cur.VibeHour = true
	cur.UseMilitaryTime = false
	want := *cur

	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := NewStore(mem, display.Basalt)
	reloaded.Load()

	if *reloaded.Current() != want {
		t.Errorf("round trip = %+v, want %+v", *reloaded.Current(), want)
	}
}

type failingStorage struct {
	*persist.Memory
}

func (failingStorage) Write(uint32, []byte) error {
	return errors.New("disk full")
}

func TestStore_SaveRunsHook(t *testing.T) {
	tests := []struct {
		name    string
		storage persist.Storage
		wantErr bool
	}{
		{"successful write", persist.NewMemory(), false},
		{"failed write", failingStorage{persist.NewMemory()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.storage, display.Basalt)
			store.Current().VibeHour = true

			calls := 0
			var seen Settings
			store.OnSave(func(s Settings) {
				calls++
				seen = s
			})

			err := store.Save()
			if (err != nil) != tt.wantErr {
				t.Errorf("Save() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != 1 {
				t.Errorf("on-save hook called %d times, want 1", calls)
			}
			if !seen.VibeHour {
				t.Error("on-save hook did not receive the current settings")
			}
		})
	}
}

func TestStore_DisplayOptions(t *testing.T) {
	store := NewStore(persist.NewMemory(), display.Basalt)
	store.Current().ShowMonth = true
	store.Current().UseMilitaryTime = false

	opts := store.DisplayOptions()
	if !opts.ShowMonth || opts.Use24Hour || opts.VibeOnHour {
		t.Errorf("DisplayOptions() flags = %+v", opts)
	}
	if opts.CalendarTopBG != display.ColorRed || opts.CalendarBottomBG != display.ColorWhite {
		t.Errorf("DisplayOptions() calendar colors = %v/%v", opts.CalendarTopBG, opts.CalendarBottomBG)
	}
}
