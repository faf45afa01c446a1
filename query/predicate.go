package query

import (
	"fmt"

	"github.com/SierraSoftworks/connor"
	"github.com/expr-lang/expr"
)

// ExprPredicate compiles a boolean expression evaluated with the record
// fields as variables, e.g. `age > 10 && name contains "oh"`.
// Evaluation errors count as a non match.
func ExprPredicate(source string) (Predicate, error) {

	program, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}

	return func(r Record) bool {
		out, err := expr.Run(program, map[string]any(r))
		if err != nil {
			return false
		}
		pass, _ := out.(bool)
		return pass
	}, nil
}

// MatchPredicate builds a predicate from mongo style conditions such as
// {"age": {"$gt": 10}, "name": "John"}.
func MatchPredicate(conditions map[string]any) Predicate {
	return func(r Record) bool {
		match, err := connor.Match(conditions, map[string]any(r))
		if err != nil {
			return false
		}
		return match
	}
}

// And combines predicates, nil entries are ignored.
func And(predicates ...Predicate) Predicate {
	active := make([]Predicate, 0, len(predicates))
	for _, p := range predicates {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(r Record) bool {
		for _, p := range active {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
