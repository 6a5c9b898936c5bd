package conditions

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EvalType selects how conditions are combined.
type EvalType int

const (
	EvalAndOr EvalType = iota
	EvalAnd
	EvalOr
	EvalCustom
)

var evalTypeNames = []string{"and/or", "and", "or", "custom"}

func (t EvalType) String() string {
	if t < 0 || int(t) >= len(evalTypeNames) {
		return fmt.Sprintf("EvalType(%d)", int(t))
	}
	return evalTypeNames[t]
}

// ParseEvalType accepts the names returned by EvalType.String, case
// insensitively. The empty string means EvalAndOr.
func ParseEvalType(s string) (EvalType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EvalAndOr, nil
	}
	for i, name := range evalTypeNames {
		if s == name {
			return EvalType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown evaluation type %q (expected one of %s)", s, strings.Join(evalTypeNames, ", "))
}

func (t EvalType) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *EvalType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEvalType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}
