package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/formulint/expression"
)

func newTokensCmd(a *app) *cobra.Command {
	var (
		macrosOnly bool
		keepSpace  bool
	)

	cmd := &cobra.Command{
		Use:   "tokens <expression>",
		Short: "Tokenize a trigger expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			expr := args[0]

			tokens, err := expression.NewTokenizer(a.cfg.Expression.Operators...).Tokenize(expr)
			if err != nil {
				return err
			}
			if err := expression.CheckParens(expr, tokens); err != nil {
				return err
			}

			if macrosOnly {
				seen := make(map[string]bool)
				var names []string
				for _, tok := range tokens {
					if tok.Kind == expression.TokenUserMacro && !seen[tok.MacroName()] {
						seen[tok.MacroName()] = true
						names = append(names, tok.MacroName())
					}
				}
				if len(names) > 0 {
					fmt.Fprintln(out, strings.Join(names, "\n"))
				}
				return nil
			}

			for _, tok := range tokens {
				if tok.Kind == expression.TokenSpace && !keepSpace {
					continue
				}
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&macrosOnly, "macros", false, "print only the names of user macros")
	cmd.Flags().BoolVar(&keepSpace, "space", false, "include whitespace tokens")

	return cmd
}
