package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/formulint/conditions"
	"github.com/dhamidi/formulint/store"
)

func newStoreCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the filter store",
	}

	cmd.PersistentFlags().StringVar(&path, "db", "", "store database (defaults to the configured store path)")

	open := func() (*store.Store, error) {
		if path == "" {
			path = a.cfg.Store.Path
		}
		return store.Open(path)
	}

	cmd.AddCommand(newStoreAddCmd(open))
	cmd.AddCommand(newStoreListCmd(open))
	cmd.AddCommand(newStoreShowCmd(open))
	cmd.AddCommand(newStoreRmCmd(open))

	return cmd
}

type storeOpener func() (*store.Store, error)

func newStoreAddCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Check filters and save them to the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, path := range args {
				docs, err := conditions.LoadFile(path)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					saved, err := s.Save(cmd.Context(), doc.Filter)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "saved %s: %s\n", saved.Name, saved.Formula)
				}
			}
			return nil
		},
	}
}

func newStoreListCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			filters, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEVALTYPE\tCONDITIONS\tFORMULA")
			for _, f := range filters {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Name, f.EvalType, f.Conditions, f.Formula)
			}
			return tw.Flush()
		},
	}
}

func newStoreShowCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored filter as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return conditions.Encode(cmd.OutOrStdout(), *f)
		},
	}
}

func newStoreRmCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>...",
		Short: "Remove filters from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range args {
				if err := s.Delete(cmd.Context(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
