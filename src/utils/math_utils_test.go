package utils

import "testing"

func TestMinInt(t *testing.T) {
	if got := MinInt(2, 5); got != 2 {
		t.Errorf("MinInt(2, 5) = %d, want 2", got)
	}
	if got := MinInt(5, 2); got != 2 {
		t.Errorf("MinInt(5, 2) = %d, want 2", got)
	}
	if got := MinInt(-1, 0); got != -1 {
		t.Errorf("MinInt(-1, 0) = %d, want -1", got)
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		val       float64
		precision uint
		want      float64
	}{
		{1234.5678, 2, 1234.57},
		{1234.564, 2, 1234.56},
		{-8.906, 2, -8.91},
		{100, 0, 100},
	}
	for _, tt := range tests {
		if got := RoundFloat(tt.val, tt.precision); got != tt.want {
			t.Errorf("RoundFloat(%v, %d) = %v, want %v", tt.val, tt.precision, got, tt.want)
		}
	}
}
