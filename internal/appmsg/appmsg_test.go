package appmsg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/watchface/internal/display"
	"github.com/muurk/watchface/internal/settings"
)

func TestDecode_NotObject(t *testing.T) {
	for _, payload := range []string{``, `null`, `[1,2]`, `42`, `"x"`, `{bad json`} {
		t.Run(payload, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			require.ErrorIs(t, err, ErrNotObject)
		})
	}
}

func TestDecode_EmptyObject(t *testing.T) {
	u, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, u.Empty())
	assert.Empty(t, u.Malformed)
}

func TestDecode_AllFields(t *testing.T) {
	payload := `{
		"BackgroundColor": 255,
		"HourColor": 16711680,
		"MinColor": 65280,
		"CalendarTopFGColor": 16777215,
		"CalendarTopBGColor": 0,
		"CalendarBottomFGColor": 16776960,
		"CalendarBottomBGColor": 11184810,
		"showMonth": 1,
		"vibeHour": 0,
		"useMil": 1
	}`

	u, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, Keys(), u.Present())

	s := settings.Defaults(display.Basalt)
	u.Apply(&s)

	assert.Equal(t, display.ColorBlue, s.BackgroundColor)
	assert.Equal(t, display.ColorRed, s.HourColor)
	assert.Equal(t, display.ColorGreen, s.MinColor)
	assert.Equal(t, display.ColorWhite, s.CalendarTopFGColor)
	assert.Equal(t, display.ColorBlack, s.CalendarTopBGColor)
	assert.Equal(t, display.ColorYellow, s.CalendarBottomFGColor)
	assert.Equal(t, display.ColorLightGray, s.CalendarBottomBGColor)
	assert.True(t, s.ShowMonth)
	assert.False(t, s.VibeHour)
	assert.True(t, s.UseMilitaryTime)
}

func TestDecode_OnlyShowMonthChangesOnlyShowMonth(t *testing.T) {
	u, err := Decode([]byte(`{"showMonth": 1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{KeyShowMonth}, u.Present())

	before := settings.Defaults(display.Chalk)
	before.HourColor = display.ColorOrange
	after := before
	u.Apply(&after)

	want := before
	want.ShowMonth = true
	assert.Equal(t, want, after)
}

func TestDecode_FlagValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"0", false},
		{"2", false},
		{"-1", false},
		{"255", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			u, err := Decode([]byte(`{"vibeHour": ` + tt.value + `}`))
			require.NoError(t, err)
			require.NotNil(t, u.VibeHour)
			assert.Equal(t, tt.want, *u.VibeHour)
		})
	}
}

func TestDecode_MalformedFieldsLeftUnchanged(t *testing.T) {
	u, err := Decode([]byte(`{"HourColor": "red", "useMil": true, "MinColor": 1.5, "vibeHour": 1}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{KeyHourColor, KeyMinColor, KeyUseMil}, u.Malformed)
	assert.Equal(t, []string{KeyVibeHour}, u.Present())

	s := settings.Defaults(display.Basalt)
	u.Apply(&s)
	assert.Equal(t, display.ColorWhite, s.HourColor)
	assert.Equal(t, display.ColorWhite, s.MinColor)
	assert.True(t, s.UseMilitaryTime)
	assert.True(t, s.VibeHour)
}

func TestDecode_QuotedNumbersAreMalformed(t *testing.T) {
	u, err := Decode([]byte(`{"showMonth": "1", "BackgroundColor": "16711680", "useMil": " 0", "MinColor": 255}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{KeyShowMonth, KeyBackgroundColor, KeyUseMil}, u.Malformed)
	assert.Equal(t, []string{KeyMinColor}, u.Present())

	s := settings.Defaults(display.Basalt)
	u.Apply(&s)
	assert.Equal(t, display.ColorBlack, s.BackgroundColor)
	assert.False(t, s.ShowMonth)
	assert.True(t, s.UseMilitaryTime)
}

func TestDecode_UnknownKeysIgnored(t *testing.T) {
	u, err := Decode([]byte(`{"Theme": 3, "showmonth": 1}`))
	require.NoError(t, err)
	assert.True(t, u.Empty())
	assert.Empty(t, u.Malformed)
}

func TestUpdate_Set(t *testing.T) {
	var u Update
	assert.True(t, u.Set(KeyBackgroundColor, 0xFF0000))
	assert.True(t, u.Set(KeyUseMil, 0))
	assert.False(t, u.Set("nope", 1))

	require.NotNil(t, u.BackgroundColor)
	assert.Equal(t, display.ColorRed, *u.BackgroundColor)
	require.NotNil(t, u.UseMilitaryTime)
	assert.False(t, *u.UseMilitaryTime)
}

func TestMessage_EncodeDecode(t *testing.T) {
	m := Message{}
	m.SetColor(KeyCalendarTopBGColor, 0x00AAFF)
	m.SetFlag(KeyShowMonth, true)
	m.SetFlag(KeyVibeHour, false)

	assert.Equal(t, []string{KeyCalendarTopBGColor, KeyShowMonth, KeyVibeHour}, m.Keys())

	data, err := m.Encode()
	require.NoError(t, err)

	var raw map[string]int64
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, int64(0x00AAFF), raw[KeyCalendarTopBGColor])
	assert.Equal(t, int64(1), raw[KeyShowMonth])
	assert.Equal(t, int64(0), raw[KeyVibeHour])

	u, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, u.CalendarTopBGColor)
	assert.Equal(t, display.ColorFromHex(0x00AAFF), *u.CalendarTopBGColor)
}

func TestKeyClassification(t *testing.T) {
	for _, k := range ColorKeys {
		assert.True(t, IsColorKey(k), k)
		assert.False(t, IsFlagKey(k), k)
	}
	for _, k := range FlagKeys {
		assert.True(t, IsFlagKey(k), k)
		assert.False(t, IsColorKey(k), k)
	}
	assert.Len(t, Keys(), 10)
}
