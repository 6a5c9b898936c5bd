package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/formulint/conditions"
	"github.com/dhamidi/formulint/formula"
)

func newFormulaCmd() *cobra.Command {
	var (
		ids    []string
		values map[string]string
	)

	cmd := &cobra.Command{
		Use:   "formula <formula>",
		Short: "Parse a condition formula",
		Long: `Parse a condition formula and print its canonical form and operands.

With --conditions the operands are cross-checked against the given
condition ids. With --eval the formula is evaluated for the given values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			f, err := formula.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "formula:  %s\n", f)
			fmt.Fprintf(out, "operands: %s\n", strings.Join(f.Operands(), ", "))

			if cmd.Flags().Changed("conditions") {
				conds := make([]conditions.Condition, len(ids))
				for i, id := range ids {
					conds[i] = conditions.Condition{FormulaID: strings.TrimSpace(id)}
				}
				if err := conditions.Validate(f, conds); err != nil {
					return err
				}
				fmt.Fprintln(out, "conditions: ok")
			}

			if len(values) > 0 {
				env := make(map[string]bool, len(values))
				for id, v := range values {
					b, err := strconv.ParseBool(v)
					if err != nil {
						return fmt.Errorf("value of %s: %w", id, err)
					}
					env[id] = b
				}
				result, err := f.Evaluate(env)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "result:   %t\n", result)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "conditions", nil, "condition ids the formula must use exactly")
	cmd.Flags().StringToStringVar(&values, "eval", nil, "evaluate with operand values, e.g. A=true,B=false")

	return cmd
}
