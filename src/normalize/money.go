package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var errNoMoneyValue = errors.New("no numeric content")

// AsString coerces an untyped cell value to its canonical string form.
// Floats print without exponent or trailing zeros, so an order number typed
// as 12345.0 by a spreadsheet reader comes back as "12345".
func AsString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseMoneyValue converts a locale-ambiguous monetary cell into a float64.
// It is the lenient policy: anything that fails to parse, including empty
// input, yields 0. Deterministic; the same input always yields the same
// number.
func ParseMoneyValue(value any) float64 {
	amount, err := ParseMoneyValueStrict(value)
	if err != nil {
		return 0
	}
	return amount
}

// ParseMoneyValueStrict is the strict variant of ParseMoneyValue: it reports
// why a value did not parse instead of defaulting to 0.
//
// Separator disambiguation, in order:
//   - both "," and "." present and either repeats → long Brazilian form
//     (1.234.567,89): dots are thousands separators, comma is decimal;
//   - both present once → the rightmost of the two is the decimal separator;
//   - only "," present → comma is the decimal separator;
//   - only "." or neither → the string is taken as-is.
func ParseMoneyValueStrict(value any) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, AsString(value))

	if cleaned == "" {
		return 0, errNoMoneyValue
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.Count(cleaned, ".") > 1 || strings.Count(cleaned, ",") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("not a monetary amount: %q", cleaned)
	}
	amount, _ := d.Float64()
	return amount, nil
}
