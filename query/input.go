package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Input is the serializable form of a Spec, used by HTTP surfaces.
// Filter is an expression (see ExprPredicate) and Where a mongo style match
// (see MatchPredicate); both belong to the predicate mode and cannot be mixed
// with the operator categories.
type Input struct {
	Page int `json:"page"`
	Size int `json:"size"`
	Operators
	Filter string         `json:"filter,omitempty"`
	Where  map[string]any `json:"where,omitempty"`
	Sort   []string       `json:"sort,omitempty"`
}

func (in *Input) Spec() (Spec, error) {

	spec := Spec{
		Page:   in.Page,
		Size:   in.Size,
		SortBy: in.Sort,
	}

	var predicates []Predicate
	if strings.TrimSpace(in.Filter) != "" {
		p, err := ExprPredicate(in.Filter)
		if err != nil {
			return spec, err
		}
		predicates = append(predicates, p)
	}
	if len(in.Where) > 0 {
		predicates = append(predicates, MatchPredicate(in.Where))
	}
	spec.Filter = And(predicates...)

	if !in.Operators.IsEmpty() {
		operators := in.Operators
		spec.Operators = &operators
	}

	if spec.Filter != nil && spec.Operators != nil {
		return spec, ErrConflictingFilters
	}

	return spec, nil
}

// ParseValues reads an Input from a query string:
//
//	?page=2&size=5&gt.age=10&like.name=oh&sort=-age,name
//	?filter=age > 10
//
// Operator values are decoded as JSON when possible (10, true, null,
// "quoted") and taken as plain strings otherwise.
func ParseValues(values url.Values) (*Input, error) {

	in := &Input{}

	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		value := list[len(list)-1]

		switch key {
		case "page":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad page '%s': %w", value, err)
			}
			in.Page = n
			continue
		case "size":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad size '%s': %w", value, err)
			}
			in.Size = n
			continue
		case "sort":
			for _, v := range list {
				in.Sort = append(in.Sort, strings.Split(v, ",")...)
			}
			continue
		case "filter":
			in.Filter = value
			continue
		}

		operator, field, ok := strings.Cut(key, ".")
		if !ok || field == "" {
			continue // unrelated parameter
		}
		category := in.category(operator)
		if category == nil {
			continue
		}
		if *category == nil {
			*category = map[string]any{}
		}
		(*category)[field] = ParseScalar(value)
	}

	return in, nil
}

func (in *Input) category(name string) *map[string]any {
	switch name {
	case "eq":
		return &in.Eq
	case "gt":
		return &in.Gt
	case "lt":
		return &in.Lt
	case "ge":
		return &in.Ge
	case "le":
		return &in.Le
	case "like":
		return &in.Like
	}
	return nil
}

// ParseScalar decodes s as a JSON value, falling back to the raw string.
func ParseScalar(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
