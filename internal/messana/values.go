package messana

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SentinelThreshold is the cutoff at or below which the controller means "no reading".
// The documented placeholder is -3276.8.
const SentinelThreshold = -3000.0

// fields is a decoded JSON object response.
type fields map[string]any

// lookup returns the first key present with a non-null value.
func (f fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// number reads a numeric field. Numbers, numeric strings and booleans are accepted.
func (f fields) number(keys ...string) (float64, bool) {
	v, ok := f.lookup(keys...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (f fields) intOr(def int, keys ...string) int {
	if n, ok := f.number(keys...); ok {
		return int(n)
	}
	return def
}

func (f fields) boolOr(def bool, keys ...string) bool {
	if n, ok := f.number(keys...); ok {
		return n != 0
	}
	return def
}

func (f fields) stringOr(def string, keys ...string) string {
	v, ok := f.lookup(keys...)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// reading reads an optional measurement, applying the sentinel rule when sentinel is set.
func (f fields) reading(sentinel bool, keys ...string) *float64 {
	n, ok := f.number(keys...)
	if !ok {
		return nil
	}
	if sentinel {
		return normalizeReading(n)
	}
	return &n
}

// normalizeReading maps sentinel values to nil.
func normalizeReading(v float64) *float64 {
	if v <= SentinelThreshold {
		return nil
	}
	return &v
}

// toFloat accepts finite values only; "NaN" and "Inf" strings are not numbers.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return finite(f, err)
	case float64:
		return finite(t, nil)
	case string:
		return finite(strconv.ParseFloat(strings.TrimSpace(t), 64))
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func finite(f float64, err error) (float64, bool) {
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func boolValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
