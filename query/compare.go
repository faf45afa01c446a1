package query

import (
	"encoding/json"
	"strings"
)

// Kind is the tag of a dynamic field value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindOther
)

// KindOf classifies a decoded JSON (or YAML) value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any, Record:
		return KindObject
	}
	if _, ok := toNumber(v); ok {
		return KindNumber
	}
	return KindOther
}

func toNumber(v any) (float64, bool) {
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
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Compare orders two scalar values of the same kind. Numbers compare
// numerically, strings lexicographically, false sorts before true and null
// equals null. Any other combination, cross-kind included, is not ordered and
// ok is false.
func Compare(a, b any) (c int, ok bool) {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return 0, false
	}

	switch ka {
	case KindNull:
		return 0, true
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case KindNumber:
		x, _ := toNumber(a)
		y, _ := toNumber(b)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case KindString:
		return strings.Compare(a.(string), b.(string)), true
	}

	return 0, false
}

// Equal reports deep equality with numbers compared by value (1 == 1.0).
func Equal(a, b any) bool {
	if c, ok := Compare(a, b); ok {
		return c == 0
	}

	switch x := a.(type) {
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	mx, okx := asMap(a)
	my, oky := asMap(b)
	if !okx || !oky || len(mx) != len(my) {
		return false
	}
	for k, vx := range mx {
		vy, exists := my[k]
		if !exists || !Equal(vx, vy) {
			return false
		}
	}
	return true
}

// IsMatch is a partial deep comparison: every member of expected must be
// present in actual. Nested objects match partially, expected arrays match
// when each of their items matches some item of the actual array.
func IsMatch(actual, expected any) bool {
	if me, ok := asMap(expected); ok {
		ma, ok := asMap(actual)
		if !ok {
			return false
		}
		for k, ve := range me {
			va, exists := ma[k]
			if !exists || !IsMatch(va, ve) {
				return false
			}
		}
		return true
	}

	if se, ok := expected.([]any); ok {
		sa, ok := actual.([]any)
		if !ok {
			return false
		}
		for _, ve := range se {
			found := false
			for _, va := range sa {
				if IsMatch(va, ve) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	return Equal(actual, expected)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}
