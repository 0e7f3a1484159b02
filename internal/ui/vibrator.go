package ui

import (
	"io"
	"sync/atomic"
	"time"
)

// bell is the terminal BEL control character.
const bell = "\a"

// BellVibrator stands in for the watch's vibration motor: a short pulse
// rings the terminal bell.
type BellVibrator struct {
	out     io.Writer
	pulses  atomic.Int64
	lastNS  atomic.Int64
	enabled bool
}

// NewBellVibrator creates a vibrator writing to out. A disabled vibrator
// still counts pulses.
func NewBellVibrator(out io.Writer, enabled bool) *BellVibrator {
	return &BellVibrator{out: out, enabled: enabled}
}

// ShortPulse implements display.Vibrator.
func (v *BellVibrator) ShortPulse() {
	v.pulses.Add(1)
	v.lastNS.Store(time.Now().UnixNano())
	if v.enabled && v.out != nil {
		_, _ = io.WriteString(v.out, bell)
	}
}

// Pulses returns the number of pulses so far.
func (v *BellVibrator) Pulses() int64 {
	return v.pulses.Load()
}

// Since returns the time since the last pulse, or false if none happened.
func (v *BellVibrator) Since(now time.Time) (time.Duration, bool) {
	last := v.lastNS.Load()
	if last == 0 {
		return 0, false
	}
	return now.Sub(time.Unix(0, last)), true
}
