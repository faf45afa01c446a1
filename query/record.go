package query

import (
	"encoding/json"
	"strconv"
)

// Record is one schema-less entry of a resource collection.
type Record map[string]any

// Clone returns a deep copy of the record so callers never share nested
// maps or slices with the collection.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]any(r)).(map[string]any)
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = cloneValue(item)
		}
		return m
	case Record:
		return Record(cloneValue(map[string]any(v)).(map[string]any))
	case []any:
		s := make([]any, len(v))
		for i, item := range v {
			s[i] = cloneValue(item)
		}
		return s
	default:
		return v
	}
}

// Stringify renders a field value the way `like` sees it: strings as is,
// numbers in their shortest form, everything else as JSON.
func Stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	}
	if n, ok := toNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
