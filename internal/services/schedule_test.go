package services

import (
	"testing"
	"time"
)

func TestEveryKeepsFractionalSeconds(t *testing.T) {
	start := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		interval time.Duration
		want     time.Duration
	}{
		{1500 * time.Millisecond, 1500 * time.Millisecond},
		{30 * time.Second, 30 * time.Second},
		{0, time.Second},
		{-time.Minute, time.Second},
	}
	for _, tt := range tests {
		if got := Every(tt.interval).Next(start).Sub(start); got != tt.want {
			t.Errorf("Every(%s): next after %s, want %s", tt.interval, got, tt.want)
		}
	}
}
