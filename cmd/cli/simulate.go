package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gotreat/app"
	"gotreat/domain/simulation"
	"gotreat/internal/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type simulateFlags struct {
	spec       string
	name       string
	substance  string
	matrix     string
	train      []string
	start      []float64
	caseStudy  string
	runs       int
	resolution int
	priorPower float64
	seed       uint64
	out        string
	report     string
	format     string
}

func newSimulateCmd() *cobra.Command {
	var f simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one substance through a treatment train",
		Long: `Simulate one substance flowing from an input matrix through a treatment train.

The scenario is given either by flags or by a YAML scenario file (--spec) with the
keys name, substance, input_matrix, treatments, starting_concentration, reference,
mixtures and removals.

Example: gotreat simulate --substance pfoa --matrix rww --train wwt1,wwmb,wwuf,wwro --out pfoa.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			spec, err := f.scenarioSpec()
			if err != nil {
				return err
			}
			sc, err := spec.Build()
			if err != nil {
				return err
			}
			cs, err := c.CaseStudy(f.caseStudy)
			if err != nil {
				return err
			}

			opts := c.Options()
			if cmd.Flags().Changed("runs") {
				opts.Runs = f.runs
			}
			if cmd.Flags().Changed("resolution") {
				opts.Resolution = f.resolution
			}
			if cmd.Flags().Changed("prior-power") {
				opts.PriorPower = f.priorPower
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = f.seed
			}

			res, err := c.Simulator.Simulate(ctx, app.SimulationRequest{Scenario: sc, Options: opts, CaseStudy: cs})
			if err != nil {
				return err
			}

			if f.out != "" {
				if err := c.Exporter.Export(ctx, res, f.out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", f.out)
			}
			if f.report != "" {
				if err := writeReport(res, f.report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", f.report)
			}
			return printResult(cmd, res, f.format)
		},
	}

	cmd.Flags().StringVar(&f.spec, "spec", "", "YAML scenario file")
	cmd.Flags().StringVar(&f.name, "name", "", "Scenario name (also selects tagged case-study mixtures)")
	cmd.Flags().StringVar(&f.substance, "substance", "", "Substance id")
	cmd.Flags().StringVar(&f.matrix, "matrix", "", "Input matrix id")
	cmd.Flags().StringSliceVar(&f.train, "train", nil, "Comma separated treatment ids")
	cmd.Flags().Float64SliceVar(&f.start, "start", nil, "Starting concentrations in ng/L; only their range is used")
	cmd.Flags().StringVar(&f.caseStudy, "case-study", "", "Case study name from CASE_STUDY_DIR")
	cmd.Flags().IntVar(&f.runs, "runs", 10000, "Number of Monte-Carlo runs")
	cmd.Flags().IntVar(&f.resolution, "resolution", 1000, "Removal factor grid resolution")
	cmd.Flags().Float64Var(&f.priorPower, "prior-power", 100, "Prior power")
	cmd.Flags().Uint64Var(&f.seed, "seed", 42, "Random seed for deterministic runs")
	cmd.Flags().StringVar(&f.out, "out", "", "Write the result workbook (.xlsx) to this path")
	cmd.Flags().StringVar(&f.report, "report", "", "Write a report (.md or .html) to this path")
	cmd.Flags().StringVar(&f.format, "format", "markdown", "Output on stdout: markdown, json or none")

	return cmd
}

// scenarioSpec reads the scenario file if given; flags override its fields.
func (f simulateFlags) scenarioSpec() (app.ScenarioSpec, error) {
	var spec app.ScenarioSpec
	if f.spec != "" {
		data, err := os.ReadFile(f.spec)
		if err != nil {
			return spec, err
		}
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return spec, fmt.Errorf("failed to parse %s: %w", f.spec, err)
		}
	}
	if f.name != "" {
		spec.Name = f.name
	}
	if f.substance != "" {
		spec.Substance = f.substance
	}
	if f.matrix != "" {
		spec.InputMatrix = f.matrix
	}
	if len(f.train) > 0 {
		spec.Treatments = f.train
	}
	if len(f.start) > 0 {
		spec.StartingConcentration = f.start
	}
	if spec.Substance == "" || spec.InputMatrix == "" || len(spec.Treatments) == 0 {
		return spec, fmt.Errorf("substance, input matrix and treatments are required")
	}
	return spec, nil
}

func writeReport(res *simulation.Result, path string) error {
	render := report.Markdown
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		render = report.HTML
	}
	body, err := render(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func printResult(cmd *cobra.Command, res *simulation.Result, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "none":
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "markdown", "":
		body, err := report.Markdown(res)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
