package listview

import (
	"encoding/json"
	"math"
	"strconv"
)

// Stringify returns the textual form of a scalar value. The second result is
// false for nil and for non-scalar values (maps, slices, structs).
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(t), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(t), 10), true
	}
	return "", false
}

// Number returns v as a float64 when v is a numeric scalar.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(toUint64(t)), true
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	}
	return 0
}

func toUint64(v any) uint64 {
	switch t := v.(type) {
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	}
	return 0
}
