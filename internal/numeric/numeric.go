// Package numeric turns locale-formatted numeric text into float64 values.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/width"
)

// Sentinel errors returned by Parse. Test with errors.Is.
var (
	ErrNotNumber  = eris.New("numeric: not a number")
	ErrOutOfRange = eris.New("numeric: out of range")
)

// Normalize converts v to a float64. Strings have every rune other than a
// digit, '-' or '.' removed before parsing, so "₩1,200 원" reads as 1200.
// Full-width forms are folded to ASCII first. The result may be NaN; callers
// must check IsFinite.
func Normalize(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		return parseText(string(n))
	case string:
		return parseText(n)
	default:
		return math.NaN()
	}
}

func parseText(s string) float64 {
	s = width.Narrow.String(s)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Options constrains the values Parse accepts. Nil bounds are unchecked.
type Options struct {
	Min         *float64
	Max         *float64
	Positive    bool
	Nonnegative bool
	Integer     bool
}

// Parse normalizes v and checks it against opts. It never panics; a failed
// check is reported as an error wrapping ErrNotNumber or ErrOutOfRange.
func Parse(v any, opts Options) (float64, error) {
	n := Normalize(v)
	if !IsFinite(n) {
		return 0, eris.Wrapf(ErrNotNumber, "value %v", v)
	}
	if opts.Positive && n <= 0 {
		return 0, eris.Wrapf(ErrOutOfRange, "%v must be greater than 0", n)
	}
	if opts.Nonnegative && n < 0 {
		return 0, eris.Wrapf(ErrOutOfRange, "%v must not be negative", n)
	}
	if opts.Integer && n != math.Trunc(n) {
		return 0, eris.Wrapf(ErrOutOfRange, "%v must be a whole number", n)
	}
	if opts.Min != nil && n < *opts.Min {
		return 0, eris.Wrapf(ErrOutOfRange, "%v is below minimum %v", n, *opts.Min)
	}
	if opts.Max != nil && n > *opts.Max {
		return 0, eris.Wrapf(ErrOutOfRange, "%v is above maximum %v", n, *opts.Max)
	}
	return n, nil
}

// Float returns a pointer to f, for use with Options bounds.
func Float(f float64) *float64 {
	return &f
}
