package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/formulint/conditions"
)

// parseConditionArg reads "field", "field=value" or "ID:field=value".
func parseConditionArg(arg string) (conditions.Condition, error) {
	var c conditions.Condition
	if id, rest, ok := strings.Cut(arg, ":"); ok {
		c.FormulaID = id
		arg = rest
	}
	field, value, ok := strings.Cut(arg, "=")
	if field == "" {
		return c, fmt.Errorf("condition %q has no field", arg)
	}
	c.Field = field
	if ok {
		c.Operator = "="
		c.Value = value
	}
	return c, nil
}

func newBuildCmd() *cobra.Command {
	var (
		evalType string
		name     string
		asYAML   bool
	)

	cmd := &cobra.Command{
		Use:   "build <condition>...",
		Short: "Generate the formula for a list of conditions",
		Long: `Generate the formula for a list of conditions.

Each condition is written as field, field=value or ID:field=value.
Conditions without an id are assigned the next free letter.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			et, err := conditions.ParseEvalType(evalType)
			if err != nil {
				return err
			}
			if et == conditions.EvalCustom {
				return fmt.Errorf("build: evaluation type %s needs a hand-written formula", et)
			}

			conds := make([]conditions.Condition, 0, len(args))
			for _, arg := range args {
				c, err := parseConditionArg(arg)
				if err != nil {
					return err
				}
				conds = append(conds, c)
			}

			checked, err := conditions.Filter{Name: name, EvalType: et, Conditions: conds}.Check()
			if err != nil {
				return err
			}

			if asYAML {
				return conditions.Encode(out, checked.Filter)
			}
			for _, c := range checked.Filter.Conditions {
				fmt.Fprintf(out, "%s  %s%s%s\n", c.FormulaID, c.Field, c.Operator, c.Value)
			}
			fmt.Fprintf(out, "formula: %s\n", checked.Formula)
			return nil
		},
	}

	cmd.Flags().StringVarP(&evalType, "evaltype", "e", conditions.EvalAndOr.String(), "evaluation type: and/or, and, or")
	cmd.Flags().StringVar(&name, "name", "filter", "filter name for --yaml output")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the filter as a YAML document")

	return cmd
}
