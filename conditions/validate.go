// Package conditions reconciles condition formulas with the conditions they
// reference and builds formulas for the standard evaluation types.
package conditions

import (
	"fmt"

	"github.com/dhamidi/formulint/formula"
)

// Condition is one boolean input of a filter, identified in formulas by its
// FormulaID.
type Condition struct {
	FormulaID string `yaml:"id,omitempty" json:"id,omitempty"`
	Field     string `yaml:"field" json:"field"`
	Operator  string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value     string `yaml:"value,omitempty" json:"value,omitempty"`
}

// MissingConditionError reports an operand without a matching condition.
type MissingConditionError struct {
	ID      string
	Formula string
}

func (e *MissingConditionError) Error() string {
	return fmt.Sprintf("condition %q used in formula %q is not defined", e.ID, e.Formula)
}

// UnusedConditionError reports a condition the formula never references.
type UnusedConditionError struct {
	ID      string
	Formula string
}

func (e *UnusedConditionError) Error() string {
	return fmt.Sprintf("condition %q is not used in formula %q", e.ID, e.Formula)
}

// Validate checks that the operands of f and the formula ids of conds form
// the same set. Operands are checked first, in formula order, so a
// *MissingConditionError takes priority over a *UnusedConditionError; the
// latter names the first unused condition in list order. Validate does not
// evaluate the formula.
func Validate(f *formula.Formula, conds []Condition) error {
	return ValidateOperands(f.Source(), f.Operands(), conds)
}

// ValidateOperands is Validate for an operand list obtained elsewhere.
// source is only used in error messages.
func ValidateOperands(source string, operands []string, conds []Condition) error {
	defined := make(map[string]bool, len(conds))
	for _, c := range conds {
		defined[c.FormulaID] = true
	}
	for _, id := range operands {
		if !defined[id] {
			return &MissingConditionError{ID: id, Formula: source}
		}
	}

	referenced := make(map[string]bool, len(operands))
	for _, id := range operands {
		referenced[id] = true
	}
	for _, c := range conds {
		if !referenced[c.FormulaID] {
			return &UnusedConditionError{ID: c.FormulaID, Formula: source}
		}
	}
	return nil
}
