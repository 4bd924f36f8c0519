package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"gotreat/domain/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List matrices, substances and treatments",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "matrices",
			Short: "List water matrices",
			RunE: func(cmd *cobra.Command, args []string) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME")
				for _, m := range catalog.Matrices() {
					fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Name)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "substances",
			Short: "List substances",
			RunE: func(cmd *cobra.Command, args []string) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tGROUP\tNAME\tCAS")
				for _, s := range catalog.Substances() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Group, s.Name, s.CAS)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "treatments",
			Short: "List treatments with their accepted input matrices",
			RunE: func(cmd *cobra.Command, args []string) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tGROUP\tINPUT\tOUTPUT\tNAME")
				for _, t := range catalog.Treatments() {
					out := t.OutputMatrix.ID
					if t.OutputMatrix.IsNoChange() {
						out = "="
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Group, strings.Join(t.InputMatrixIDs(), ","), out, t.Name)
				}
				return w.Flush()
			},
		},
	)

	return cmd
}
