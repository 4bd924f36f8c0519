package app

import (
	"fmt"
	"io"
	"os"

	"gotreat/domain/catalog"
	"gotreat/domain/simulation"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is the id-based description of a scenario used by the CLI
// and the HTTP API. Mixtures and Removals are keyed by treatment id and
// apply to every step of that treatment.
type ScenarioSpec struct {
	Name                  string                            `json:"name" yaml:"name"`
	Substance             string                            `json:"substance" yaml:"substance"`
	InputMatrix           string                            `json:"input_matrix" yaml:"input_matrix"`
	Treatments            []string                          `json:"treatments" yaml:"treatments"`
	StartingConcentration []float64                         `json:"starting_concentration,omitempty" yaml:"starting_concentration,omitempty"`
	Reference             *catalog.Reference                `json:"reference,omitempty" yaml:"reference,omitempty"`
	Mixtures              map[string]catalog.Mixture        `json:"mixtures,omitempty" yaml:"mixtures,omitempty"`
	Removals              map[string]catalog.RemovalPercent `json:"removals,omitempty" yaml:"removals,omitempty"`
}

// Build resolves the ids against the catalog.
func (s ScenarioSpec) Build() (simulation.Scenario, error) {
	sub, err := catalog.SubstanceByID(s.Substance)
	if err != nil {
		return simulation.Scenario{}, err
	}
	m, err := catalog.MatrixByID(s.InputMatrix)
	if err != nil {
		return simulation.Scenario{}, err
	}
	train, err := catalog.TrainFromIDs(s.Treatments...)
	if err != nil {
		return simulation.Scenario{}, err
	}
	for i, t := range train.Steps {
		if mix, ok := s.Mixtures[t.ID]; ok {
			if t, err = t.WithMixture(mix); err != nil {
				return simulation.Scenario{}, fmt.Errorf("step %d: %w", i, err)
			}
		}
		if rmv, ok := s.Removals[t.ID]; ok {
			if t, err = t.WithRemoval(rmv); err != nil {
				return simulation.Scenario{}, fmt.Errorf("step %d: %w", i, err)
			}
		}
		train = train.WithStep(i, t)
	}

	name := s.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", sub.ID, m.ID)
	}
	sc := simulation.Scenario{
		Name:        name,
		InputMatrix: m,
		Substance:   sub,
		Train:       train,
		Reference:   s.Reference,
	}
	if len(s.StartingConcentration) > 0 {
		sc.StartingConcentration = &catalog.StartingConcentration{
			Values:      append([]float64(nil), s.StartingConcentration...),
			SubstanceID: sub.ID,
			MatrixID:    m.ID,
		}
	}
	return sc, nil
}

// BatchSpec describes a scenario grid: every input matrix crossed with every
// substance and every train.
type BatchSpec struct {
	Prefix      string     `yaml:"prefix"`
	Matrices    []string   `yaml:"input_matrices"`
	Substances  []string   `yaml:"substances"`
	Trains      [][]string `yaml:"trains"`
	Runs        int        `yaml:"n_runs,omitempty"`
	Resolution  int        `yaml:"removal_factor_resolution,omitempty"`
	PriorPower  float64    `yaml:"prior_power,omitempty"`
	Seed        *uint64    `yaml:"seed,omitempty"`
	CaseStudy   string     `yaml:"case_study,omitempty"`
	ExportDir   string     `yaml:"export_dir,omitempty"`
	Description string     `yaml:"description,omitempty"`
}

// LoadBatchSpec decodes a batch file. Unknown keys are rejected.
func LoadBatchSpec(r io.Reader) (*BatchSpec, error) {
	var spec BatchSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	if spec.Prefix == "" {
		spec.Prefix = "scenario"
	}
	return &spec, nil
}

// LoadBatchSpecFile reads a batch file from disk.
func LoadBatchSpecFile(path string) (*BatchSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadBatchSpec(f)
}

// Scenarios expands the grid.
func (b *BatchSpec) Scenarios() ([]simulation.Scenario, error) {
	var axes simulation.GridAxes
	for _, id := range b.Matrices {
		m, err := catalog.MatrixByID(id)
		if err != nil {
			return nil, err
		}
		axes.InputMatrices = append(axes.InputMatrices, m)
	}
	for _, id := range b.Substances {
		sub, err := catalog.SubstanceByID(id)
		if err != nil {
			return nil, err
		}
		axes.Substances = append(axes.Substances, sub)
	}
	for _, ids := range b.Trains {
		train, err := catalog.TrainFromIDs(ids...)
		if err != nil {
			return nil, err
		}
		axes.Trains = append(axes.Trains, train)
	}
	return simulation.ScenarioGrid(b.Prefix, axes), nil
}

// Options overlays the values set in the file on defaults.
func (b *BatchSpec) Options(defaults simulation.Options) simulation.Options {
	opts := defaults
	if b.Runs > 0 {
		opts.Runs = b.Runs
	}
	if b.Resolution > 0 {
		opts.Resolution = b.Resolution
	}
	if b.PriorPower > 0 {
		opts.PriorPower = b.PriorPower
	}
	if b.Seed != nil {
		opts.Seed = *b.Seed
	}
	return opts
}
