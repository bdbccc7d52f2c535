package query

import (
	"cmp"
	"strconv"
	"strings"
)

// Document is a JSON object decoded into Go values: string, float64, bool,
// nil, []any and map[string]any.
type Document map[string]any

// Lookup resolves a dotted path. Numeric segments index into arrays; other
// segments applied to an array collect the field from every element that
// has it.
func (d Document) Lookup(path string) (any, bool) {
	return lookup(map[string]any(d), strings.Split(path, "."))
}

// String returns the string at path, or "" when absent or not a string.
func (d Document) String(path string) string {
	v, _ := d.Lookup(path)
	s, _ := v.(string)
	return s
}

// Number returns the numeric value at path.
func (d Document) Number(path string) (float64, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Strings returns the string elements of the array at path.
func (d Document) Strings(path string) []string {
	v, _ := d.Lookup(path)
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func lookup(v any, segs []string) (any, bool) {
	if len(segs) == 0 {
		return v, true
	}
	switch t := v.(type) {
	case map[string]any:
		next, ok := t[segs[0]]
		if !ok {
			return nil, false
		}
		return lookup(next, segs[1:])
	case Document:
		return lookup(map[string]any(t), segs)
	case []any:
		if i, err := strconv.Atoi(segs[0]); err == nil {
			if i < 0 || i >= len(t) {
				return nil, false
			}
			return lookup(t[i], segs[1:])
		}
		var out []any
		for _, e := range t {
			if found, ok := lookup(e, segs); ok {
				out = append(out, found)
			}
		}
		if out == nil {
			return nil, false
		}
		return out, true
	}
	return nil, false
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// BSON comparison order for the types a decoded JSON document can hold.
const (
	rankNull   = 1
	rankNumber = 2
	rankString = 3
	rankObject = 4
	rankArray  = 5
	rankBool   = 8
)

func typeRank(v any) int {
	if _, ok := toFloat(v); ok {
		return rankNumber
	}
	switch v.(type) {
	case nil:
		return rankNull
	case string:
		return rankString
	case map[string]any, Document:
		return rankObject
	case []any:
		return rankArray
	case bool:
		return rankBool
	}
	return rankObject
}

// compareValues orders two values by BSON type order, then by value.
// Objects and arrays of the same rank compare equal.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return cmp.Compare(fa, fb)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// equalValues compares values structurally, treating all numeric kinds alike.
func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case nil:
		return b == nil
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !equalValues(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		return equalMaps(ta, b)
	case Document:
		return equalMaps(ta, b)
	}
	return false
}

func equalMaps(a map[string]any, b any) bool {
	var tb map[string]any
	switch t := b.(type) {
	case map[string]any:
		tb = t
	case Document:
		tb = t
	default:
		return false
	}
	if len(a) != len(tb) {
		return false
	}
	for k, va := range a {
		vb, ok := tb[k]
		if !ok || !equalValues(va, vb) {
			return false
		}
	}
	return true
}
