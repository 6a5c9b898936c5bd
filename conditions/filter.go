package conditions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/formulint/formula"
)

var ErrEmptyFormula = errors.New("custom expression is empty")

// DuplicateConditionError reports two conditions sharing a formula id.
type DuplicateConditionError struct {
	ID string
}

func (e *DuplicateConditionError) Error() string {
	return fmt.Sprintf("duplicate condition id %q", e.ID)
}

// Filter is a named set of conditions combined by an evaluation type. The
// Formula is only read for EvalCustom.
type Filter struct {
	Name       string      `yaml:"name"`
	EvalType   EvalType    `yaml:"evaltype"`
	Formula    string      `yaml:"formula,omitempty"`
	Conditions []Condition `yaml:"conditions"`
}

// Checked is a filter that passed Check. Its conditions all carry ids and
// its Formula field holds the effective formula.
type Checked struct {
	Filter  Filter
	Formula *formula.Formula
}

// Check validates the filter and returns its normalised form. For
// non-custom evaluation types missing ids are assigned and the formula is
// generated; for EvalCustom the formula is parsed and cross-validated
// against the conditions.
func (f Filter) Check() (*Checked, error) {
	if len(f.Conditions) == 0 {
		return nil, ErrNoConditions
	}

	conds := f.Conditions
	src := f.Formula
	if f.EvalType == EvalCustom {
		if strings.TrimSpace(src) == "" {
			return nil, ErrEmptyFormula
		}
		for i, c := range conds {
			if c.FormulaID == "" {
				return nil, fmt.Errorf("condition %d on %q has no id", i+1, c.Field)
			}
		}
	} else {
		var err error
		conds, err = AssignIDs(conds)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(conds))
	for _, c := range conds {
		if seen[c.FormulaID] {
			return nil, &DuplicateConditionError{ID: c.FormulaID}
		}
		seen[c.FormulaID] = true
	}

	if f.EvalType != EvalCustom {
		var err error
		src, err = BuildFormula(conds, f.EvalType)
		if err != nil {
			return nil, err
		}
	}

	parsed, err := formula.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := Validate(parsed, conds); err != nil {
		return nil, err
	}

	out := f
	out.Conditions = conds
	out.Formula = parsed.Source()
	return &Checked{Filter: out, Formula: parsed}, nil
}
