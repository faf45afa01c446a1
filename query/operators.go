package query

import "strings"

// Operators is the structured filter form. Every category maps a field name
// to the value the field is compared with.
//
// Eq is an exact-match object applied first: all of its fields must match.
// For the remaining categories a record passes a category when at least one
// of its fields satisfies the comparison, and it must pass every category
// that was supplied. Empty categories always pass.
type Operators struct {
	Eq   map[string]any `json:"eq,omitempty"`
	Gt   map[string]any `json:"gt,omitempty"`
	Lt   map[string]any `json:"lt,omitempty"`
	Ge   map[string]any `json:"ge,omitempty"`
	Le   map[string]any `json:"le,omitempty"`
	Like map[string]any `json:"like,omitempty"`
}

// IsEmpty is true when no category carries any field.
func (o *Operators) IsEmpty() bool {
	return o == nil ||
		len(o.Eq) == 0 && len(o.Gt) == 0 && len(o.Lt) == 0 &&
			len(o.Ge) == 0 && len(o.Le) == 0 && len(o.Like) == 0
}

// Filter keeps the records accepted by the operators, in order.
func (o *Operators) Filter(records []Record) []Record {
	if o.IsEmpty() {
		return records
	}

	// eq runs as its own pass before the OR-composed categories
	if len(o.Eq) > 0 {
		matched := make([]Record, 0, len(records))
		for _, r := range records {
			if IsMatch(r, o.Eq) {
				matched = append(matched, r)
			}
		}
		records = matched
	}

	result := make([]Record, 0, len(records))
	for _, r := range records {
		if o.pass(r) {
			result = append(result, r)
		}
	}
	return result
}

func (o *Operators) pass(r Record) bool {
	return anyField(r, o.Gt, func(c int) bool { return c > 0 }) &&
		anyField(r, o.Lt, func(c int) bool { return c < 0 }) &&
		anyField(r, o.Ge, func(c int) bool { return c >= 0 }) &&
		anyField(r, o.Le, func(c int) bool { return c <= 0 }) &&
		anyLike(r, o.Like)
}

func anyField(r Record, category map[string]any, accept func(c int) bool) bool {
	if len(category) == 0 {
		return true
	}
	for field, value := range category {
		actual, exists := r[field]
		if !exists {
			continue
		}
		c, ok := Compare(actual, value)
		if ok && accept(c) {
			return true
		}
	}
	return false
}

func anyLike(r Record, category map[string]any) bool {
	if len(category) == 0 {
		return true
	}
	for field, value := range category {
		actual, exists := r[field]
		if !exists {
			continue
		}
		if strings.Contains(Stringify(actual), Stringify(value)) {
			return true
		}
	}
	return false
}
