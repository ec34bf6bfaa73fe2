package upload

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Field normalizers. All are pure and never fail: unrecognized input comes
// back as nil (or passes through, where noted) so the validator can decide
// what to do with it.

var (
	reSlashDate  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reISODate    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reMonthYear  = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	reThousands  = strings.NewReplacer(",", "", " ", "")
	fallbackDate = []string{
		"2006-01-02", "01/02/2006", "2006/01/02", "January 2, 2006",
		"Jan 2, 2006", "2-Jan-2006", "02-Jan-2006", time.RFC3339,
	}
)

// NormalizeDateOnly converts a raw cell value to an ISO YYYY-MM-DD string.
// Accepts MM/DD/YYYY and YYYY-M-D strings (zero-padded on output), native
// time values (their own calendar fields, no UTC shift), Excel day serials,
// and a handful of generic layouts. Unparsable non-empty strings pass through
// trimmed so required-field checks still see them.
func NormalizeDateOnly(raw interface{}) *string {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		return strPtr(formatDate(v.Year(), int(v.Month()), v.Day()))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if m := reSlashDate.FindStringSubmatch(s); m != nil {
			return strPtr(formatDate(atoi(m[3]), atoi(m[1]), atoi(m[2])))
		}
		if m := reISODate.FindStringSubmatch(s); m != nil {
			return strPtr(formatDate(atoi(m[1]), atoi(m[2]), atoi(m[3])))
		}
		for _, layout := range fallbackDate {
			if t, err := time.Parse(layout, s); err == nil {
				return strPtr(formatDate(t.Year(), int(t.Month()), t.Day()))
			}
		}
		// present but not a date; downstream validation decides
		return strPtr(s)
	default:
		if f, ok := toFloat(raw); ok {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return strPtr(formatDate(t.Year(), int(t.Month()), t.Day()))
			}
		}
		return nil
	}
}

// NormalizeMonthYearOrDate is NormalizeDateOnly plus M/YYYY, interpreted as
// the first day of that month.
func NormalizeMonthYearOrDate(raw interface{}) *string {
	if s, ok := raw.(string); ok {
		if m := reMonthYear.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
			return strPtr(formatDate(atoi(m[2]), atoi(m[1]), 1))
		}
	}
	return NormalizeDateOnly(raw)
}

// NormalizeMoney strips thousands separators and rounds to two decimals,
// half up at the cent boundary. Non-finite numeric input passes through
// unchanged for the caller to validate.
func NormalizeMoney(raw interface{}) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		s := reThousands.Replace(strings.TrimSpace(v))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return floatPtr(f)
		}
		return floatPtr(roundCents(f))
	default:
		f, ok := toFloat(raw)
		if !ok {
			return nil
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return floatPtr(f)
		}
		return floatPtr(roundCents(f))
	}
}

// CleanText trims a raw value to a string; empty becomes nil.
func CleanText(raw interface{}) *string {
	if raw == nil {
		return nil
	}
	var s string
	if str, ok := raw.(string); ok {
		s = str
	} else {
		s = fmt.Sprintf("%v", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strPtr(s)
}

// NormalizeInteger strips thousands separators and truncates toward zero.
// Non-finite input becomes nil.
func NormalizeInteger(raw interface{}) *int {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		s := reThousands.Replace(strings.TrimSpace(v))
		if s == "" {
			return nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return intPtr(n)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return intPtr(int(math.Trunc(f)))
	default:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return intPtr(int(math.Trunc(f)))
	}
}

func roundCents(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}

func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
