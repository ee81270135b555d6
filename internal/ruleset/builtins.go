package ruleset

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// dateLayouts are tried in order by date.parse.
var dateLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime}

// Builtins returns a registry holding the standard functions:
//
//	time.now        current time
//	date.parse      parse YYYY-MM-DD, RFC 3339 or "YYYY-MM-DD hh:mm:ss"
//	strings.upper   upper-case a string
//	strings.lower   lower-case a string
//	strings.trim    trim surrounding white space
//	str             format any value
//	len             length of a string, list or map
//	identity        the source itself
//	humanize.comma  integer with thousands separators
//	humanize.bytes  byte count as a size, e.g. 82 MB
func Builtins() *FuncRegistry {
	return NewFuncRegistry().
		MustRegister("time.now", time.Now).
		MustRegister("date.parse", parseDate).
		MustRegister("strings.upper", strings.ToUpper).
		MustRegister("strings.lower", strings.ToLower).
		MustRegister("strings.trim", strings.TrimSpace).
		MustRegister("str", func(v any) string { return fmt.Sprint(v) }).
		MustRegister("len", length).
		MustRegister("identity", func(v any) any { return v }).
		MustRegister("humanize.comma", func(v any) (string, error) {
			n, err := integer(v)
			if err != nil {
				return "", err
			}

			return humanize.Comma(n), nil
		}).
		MustRegister("humanize.bytes", func(v any) (string, error) {
			n, err := integer(v)
			if err != nil {
				return "", err
			}

			if n < 0 {
				return "", fmt.Errorf("byte count %d is negative", n)
			}

			return humanize.Bytes(uint64(n)), nil
		})
}

func parseDate(s string) (time.Time, error) {
	var firstErr error

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, fmt.Errorf("date.parse: %w", firstErr)
}

func length(v any) (int, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("len: %T has no length", v)
	}
}

// integer accepts Go integers and integral floats, as decoded from JSON.
func integer(v any) (int64, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", rv.Uint())
		}

		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%v is not an integer", f)
		}

		return int64(f), nil
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
