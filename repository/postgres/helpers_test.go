package postgres

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 100},
		{-5, 100},
		{1, 1},
		{100, 100},
		{250, 100},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if clampOffset(-1) != 0 || clampOffset(7) != 7 {
		t.Fatalf("clampOffset")
	}
}
