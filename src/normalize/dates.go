package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ISODate is the canonical date layout used across the pipeline.
const ISODate = "2006-01-02"

// Layouts tried for string dates, in priority order. Brazilian day-first
// forms come before ISO because that is what iFood exports contain.
var brazilianDateLayouts = []string{
	"02/01/2006",
	"02/01/06",
	"02-01-2006",
	"02-01-06",
	"2006-01-02",
}

// Last-resort layouts for strings that are dates but not in any of the
// expected export forms (API timestamps, re-saved spreadsheets).
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"2006/01/02",
}

// spreadsheetEpoch is day 1 of the 1900 date system.
var spreadsheetEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateParser normalizes heterogeneous date values to ISODate strings. Now
// supplies "today" for the lenient fallback and is injectable for tests; Log
// receives a warning every time that fallback fires, so silent degradation
// stays observable.
type DateParser struct {
	Now func() time.Time
	Log *slog.Logger
}

func NewDateParser(log *slog.Logger) *DateParser {
	if log == nil {
		log = slog.Default()
	}
	return &DateParser{Now: time.Now, Log: log}
}

// ParseDate is the lenient policy: it never fails. Values that cannot be
// interpreted as a date resolve to today's date, with a warning on Log.
func (p *DateParser) ParseDate(value any) string {
	s, err := p.ParseDateStrict(value)
	if err != nil {
		today := p.Now().Format(ISODate)
		p.Log.Warn("unparseable date value, defaulting to today",
			"value", value, "reason", err.Error(), "fallback", today)
		return today
	}
	return s
}

// ParseDateStrict resolves a date value to ISODate form, trying in order:
// native time.Time, spreadsheet serial number, Brazilian string layouts,
// generic string layouts. It returns an error instead of applying the
// today fallback.
func (p *DateParser) ParseDateStrict(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", errors.New("no date value")
	case time.Time:
		if v.IsZero() {
			return "", errors.New("zero time value")
		}
		return v.Format(ISODate), nil
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", errors.New("empty date string")
		}
		for _, layout := range brazilianDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(ISODate), nil
			}
		}
		for _, layout := range genericDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(ISODate), nil
			}
		}
		return "", fmt.Errorf("unrecognized date string %q", s)
	default:
		return "", fmt.Errorf("unsupported date type %T", value)
	}
}

// serialToDate converts a 1900-system spreadsheet serial to an ISO date.
// Day 1 is 1900-01-01. Serials past 59 are shifted back one extra day: the
// 1900 system counts a February 29th that never existed.
func serialToDate(serial float64) (string, error) {
	if serial <= 1 || serial >= 100000 {
		return "", fmt.Errorf("number %v is outside the spreadsheet serial range", serial)
	}
	days := int(serial) - 1
	if serial > 59 {
		days--
	}
	return spreadsheetEpoch.AddDate(0, 0, days).Format(ISODate), nil
}
