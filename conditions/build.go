package conditions

import (
	"errors"
	"fmt"
	"strings"
)

// MaxConditions is the number of distinct single-letter formula ids.
const MaxConditions = 26

var ErrNoConditions = errors.New("no conditions")

// AssignIDs returns a copy of conds where every empty FormulaID is replaced
// by the next letter not already taken, in list order.
func AssignIDs(conds []Condition) ([]Condition, error) {
	if len(conds) > MaxConditions {
		return nil, fmt.Errorf("assign ids: %d conditions exceed the limit of %d", len(conds), MaxConditions)
	}

	taken := make(map[string]bool, len(conds))
	for _, c := range conds {
		if c.FormulaID != "" {
			taken[c.FormulaID] = true
		}
	}

	out := make([]Condition, len(conds))
	next := byte('A')
	for i, c := range conds {
		if c.FormulaID == "" {
			for taken[string(next)] {
				next++
			}
			c.FormulaID = string(next)
			taken[c.FormulaID] = true
		}
		out[i] = c
	}
	return out, nil
}

// BuildFormula generates the formula for a non-custom evaluation type.
//
// EvalAnd and EvalOr join all conditions with the operator. EvalAndOr joins
// conditions on the same field with "or" and the resulting groups with
// "and"; groups keep the order in which their field first appears.
func BuildFormula(conds []Condition, evalType EvalType) (string, error) {
	if len(conds) == 0 {
		return "", ErrNoConditions
	}
	for _, c := range conds {
		if c.FormulaID == "" {
			return "", fmt.Errorf("build formula: condition on %q has no id", c.Field)
		}
	}

	switch evalType {
	case EvalAnd:
		return joinIDs(conds, " and "), nil
	case EvalOr:
		return joinIDs(conds, " or "), nil
	case EvalAndOr:
		var fields []string
		groups := make(map[string][]Condition)
		for _, c := range conds {
			if _, ok := groups[c.Field]; !ok {
				fields = append(fields, c.Field)
			}
			groups[c.Field] = append(groups[c.Field], c)
		}

		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			group := joinIDs(groups[field], " or ")
			if len(groups[field]) > 1 && len(fields) > 1 {
				group = "(" + group + ")"
			}
			parts = append(parts, group)
		}
		return strings.Join(parts, " and "), nil
	}
	return "", fmt.Errorf("build formula: evaluation type %s has no generated formula", evalType)
}

func joinIDs(conds []Condition, sep string) string {
	ids := make([]string, len(conds))
	for i, c := range conds {
		ids[i] = c.FormulaID
	}
	return strings.Join(ids, sep)
}
