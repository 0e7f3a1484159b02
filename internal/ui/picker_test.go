package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/watchface/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noScan(context.Context) ([]*discovery.Watch, error) { return nil, nil }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_SelectDiscoveredWatch(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanStartMsg{})
	assert.Contains(t, m.View(), "Searching for watches")

	m.Update(scanCompleteMsg{watches: []*discovery.Watch{
		{Name: "kitchen", IP: "10.0.0.5", Port: 9301, Path: "/sync", Platform: "chalk", Version: "1.2.0"},
		{Name: "desk", IP: "10.0.0.6", Port: 9301, Path: "/sync", TLS: true},
	}})
	view := m.View()
	assert.Contains(t, view, "kitchen")
	assert.Contains(t, view, "10.0.0.5:9301")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	pick := m.Chosen()
	require.NotNil(t, pick)
	assert.Equal(t, "kitchen", pick.Name)
	assert.Equal(t, "ws://10.0.0.5:9301/sync", pick.URL)
	assert.Equal(t, "chalk", pick.Platform)
}

func TestPicker_EnterIgnoredWhileScanning(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanStartMsg{})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.Chosen())
}

func TestPicker_NoWatchesShowsHints(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanStartMsg{})
	m.Update(scanCompleteMsg{})

	view := m.View()
	assert.Contains(t, view, "No watches found")
	assert.Contains(t, view, ScanHints[0])

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.Chosen())
}

func TestPicker_ScanError(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanCompleteMsg{err: errors.New("no multicast interface")})

	assert.Contains(t, m.View(), "no multicast interface")
}

func TestPicker_ManualURL(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanCompleteMsg{})

	m.Update(keyRunes("m"))
	assert.Contains(t, m.View(), "Enter the watch sync URL")

	m.Update(keyRunes("10.0.0.9"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	pick := m.Chosen()
	require.NotNil(t, pick)
	assert.Equal(t, "10.0.0.9", pick.URL)
}

func TestPicker_ManualCancel(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanCompleteMsg{})

	m.Update(keyRunes("m"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "Enter the watch sync URL")
	assert.Nil(t, m.Chosen())
}

func TestPicker_Quit(t *testing.T) {
	m := NewPickerModel(noScan, time.Second)
	m.Update(scanCompleteMsg{})

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.Chosen())
}

func TestPicker_ScanProgress(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m := NewPickerModel(noScan, 10*time.Second)
	m.now = func() time.Time { return now }

	m.Update(scanStartMsg{})
	now = start.Add(3 * time.Second)
	assert.Contains(t, m.View(), "Elapsed: 3s")
}
