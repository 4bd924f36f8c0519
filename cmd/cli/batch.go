package main

import (
	"fmt"
	"text/tabwriter"

	"gotreat/app"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var workers int
	var exportDir string

	cmd := &cobra.Command{
		Use:   "batch [batch-file]",
		Short: "Simulate a grid of scenarios in parallel",
		Long: `Simulate every combination of input matrices, substances and treatment trains
listed in a YAML batch file. Each scenario gets a seed derived from the base seed
and its position in the grid, so results do not depend on the number of workers.

Example: gotreat batch pfas.yaml --workers 8 --export-dir results/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			spec, err := app.LoadBatchSpecFile(args[0])
			if err != nil {
				return err
			}

			c, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			scenarios, err := spec.Scenarios()
			if err != nil {
				return err
			}
			cs, err := c.CaseStudy(spec.CaseStudy)
			if err != nil {
				return err
			}

			batch := c.Batch
			if cmd.Flags().Changed("workers") {
				batch = app.NewBatchService(c.Simulator, c.Exporter, workers)
			}
			dir := spec.ExportDir
			if exportDir != "" {
				dir = exportDir
			}

			res, err := batch.Run(ctx, app.BatchRequest{
				Scenarios: scenarios,
				Options:   spec.Options(c.Options()),
				CaseStudy: cs,
				ExportDir: dir,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tSUBSTANCE\tTRAIN\tMEDIAN OUT (ng/L)\tP(RQ>1)")
			for _, r := range res.Results {
				median, err := stats.Median(r.FinalConcentration())
				if err != nil {
					return err
				}
				exceed := "-"
				if p, err := r.ExceedanceProbability(); err == nil {
					exceed = fmt.Sprintf("%.3f", p)
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%.4g\t%s\n", r.Scenario, r.Substance.ID, r.Train.IDs(), median, exceed)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "batch %s: %d scenarios in %s\n", res.BatchID, len(res.Results), res.Elapsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Number of scenarios simulated concurrently")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Write one workbook per scenario to this directory")

	return cmd
}
