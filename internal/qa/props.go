package qa

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// normalizeNumbers replaces json.Number values (nested maps and slices
// included) with int64 when the literal is integral, uint64 when it only fits
// unsigned, and float64 otherwise.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return u
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
		return val
	default:
		return v
	}
}

// number is a property value widened for comparison.
type number struct {
	kind reflect.Kind // Int64, Uint64 or Float64
	i    int64
	u    uint64
	f    float64
}

func asNumber(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	default:
		return number{}, false
	}
}

func (n number) equal(o number) bool {
	switch {
	case n.kind == reflect.Float64 || o.kind == reflect.Float64:
		return n.float() == o.float()
	case n.kind == reflect.Int64 && o.kind == reflect.Int64:
		return n.i == o.i
	case n.kind == reflect.Uint64 && o.kind == reflect.Uint64:
		return n.u == o.u
	case n.kind == reflect.Int64:
		return n.i >= 0 && uint64(n.i) == o.u
	default:
		return o.i >= 0 && uint64(o.i) == n.u
	}
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	default:
		return n.f
	}
}

// valueEqual compares property values so that the same number held in
// different Go types (int from a caller, int64 from JSON, uint64 from
// msgpack) is equal.
func valueEqual(a, b any) bool {
	if x, ok := asNumber(a); ok {
		y, ok := asNumber(b)
		if !ok {
			return false
		}
		if x.kind == reflect.Float64 && math.IsNaN(x.f) {
			return y.kind == reflect.Float64 && math.IsNaN(y.f)
		}
		return x.equal(y)
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, item := range av {
			other, ok := bv[k]
			if !ok || !valueEqual(item, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
