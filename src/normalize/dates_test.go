package normalize

import (
	"log/slog"
	"testing"
	"time"
)

func fixedParser(t *testing.T) *DateParser {
	t.Helper()
	p := NewDateParser(slog.Default())
	p.Now = func() time.Time {
		return time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestParseDate_BrazilianLayouts(t *testing.T) {
	p := fixedParser(t)

	tests := []struct {
		input string
		want  string
	}{
		{"05/09/2024", "2024-09-05"},
		{"05/09/24", "2024-09-05"},
		{"31/12/2023", "2023-12-31"},
		{"05-09-2024", "2024-09-05"},
		{"2024-09-05", "2024-09-05"},
	}
	for _, tt := range tests {
		if got := p.ParseDate(tt.input); got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDate_NativeTime(t *testing.T) {
	p := fixedParser(t)
	in := time.Date(2024, time.March, 7, 18, 30, 0, 0, time.UTC)
	if got := p.ParseDate(in); got != "2024-03-07" {
		t.Errorf("ParseDate(time.Time) = %q, want 2024-03-07", got)
	}
}

func TestParseDate_SpreadsheetSerials(t *testing.T) {
	p := fixedParser(t)

	tests := []struct {
		serial float64
		want   string
	}{
		{45, "1900-02-14"},
		{59, "1900-02-28"},
		// The 1900 system counts a phantom Feb 29; serial 60 collapses onto
		// the 28th and 61 is March 1st.
		{60, "1900-02-28"},
		{61, "1900-03-01"},
		{45292, "2024-01-01"},
	}
	for _, tt := range tests {
		if got := p.ParseDate(tt.serial); got != tt.want {
			t.Errorf("ParseDate(%v) = %q, want %q", tt.serial, got, tt.want)
		}
	}
}

func TestParseDate_FallbackToToday(t *testing.T) {
	p := fixedParser(t)

	for _, input := range []any{nil, "", "not a date", 0.5, 100001.0} {
		if got := p.ParseDate(input); got != "2024-09-15" {
			t.Errorf("ParseDate(%v) = %q, want today fallback 2024-09-15", input, got)
		}
	}
}

func TestParseDateStrict_Errors(t *testing.T) {
	p := fixedParser(t)

	for _, input := range []any{nil, "", "pedido", time.Time{}, []string{"x"}} {
		if _, err := p.ParseDateStrict(input); err == nil {
			t.Errorf("ParseDateStrict(%v): expected error", input)
		}
	}
}

func TestParseDateStrict_GenericLayouts(t *testing.T) {
	p := fixedParser(t)

	got, err := p.ParseDateStrict("2024-09-05T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-09-05" {
		t.Errorf("got %q, want 2024-09-05", got)
	}
}
