package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewInstant(t *testing.T) {
	now := time.Date(2024, time.March, 10, 14, 37, 12, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{name: "now", want: now},
		{name: "time only", clock: "09:05", want: time.Date(2024, time.March, 10, 9, 5, 0, 0, time.UTC)},
		{name: "date only", date: "2024-02-29", want: time.Date(2024, time.February, 29, 14, 37, 0, 0, time.UTC)},
		{name: "both", date: "2023-12-31", clock: "23:59", want: time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC)},
		{name: "bad time", clock: "9pm", wantErr: true},
		{name: "bad date", date: "31/12/2023", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := previewInstant(now, tt.date, tt.clock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}
