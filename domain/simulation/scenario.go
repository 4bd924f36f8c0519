package simulation

import (
	"fmt"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
)

// Scenario is one substance flowing from an input matrix through a treatment
// train. StartingConcentration and Reference are optional overrides; when
// nil they are resolved from case-study and literature data at run time.
type Scenario struct {
	Name                  string                         `json:"name"`
	InputMatrix           catalog.Matrix                 `json:"input_matrix"`
	Substance             catalog.Substance              `json:"substance"`
	Train                 catalog.TreatmentTrain         `json:"treatment_train"`
	StartingConcentration *catalog.StartingConcentration `json:"starting_concentration,omitempty"`
	Reference             *catalog.Reference             `json:"reference,omitempty"`
}

// Fingerprint identifies the scenario inputs independently of its name.
func (s Scenario) Fingerprint() core.ScenarioFingerprint {
	return core.ComputeScenarioFingerprint(s.Substance.ID, s.InputMatrix.ID, s.Train.IDs())
}

// Validate checks the train against the input matrix and the mixture
// requirements of every step.
func (s Scenario) Validate() error {
	if s.Train.Len() == 0 {
		return fmt.Errorf("%w: scenario %q has an empty treatment train", core.ErrInvalidSimulationArg, s.Name)
	}
	if err := s.Train.ValidateMatrices(s.InputMatrix); err != nil {
		return err
	}
	return s.Train.ValidateMixtures()
}

// OutputMatrix returns the matrix leaving the last step.
func (s Scenario) OutputMatrix() catalog.Matrix {
	return s.Train.OutputMatrix(s.InputMatrix)
}

// GridAxes are the dimensions of a scenario grid. Nil entries in
// StartingConcentrations and References mean "resolve at run time".
type GridAxes struct {
	InputMatrices          []catalog.Matrix
	Substances             []catalog.Substance
	Trains                 []catalog.TreatmentTrain
	StartingConcentrations []*catalog.StartingConcentration
	References             []*catalog.Reference
}

// ScenarioGrid returns the cartesian product of the axes, named prefix-i in
// iteration order (matrix outermost, reference innermost). Empty override
// axes contribute a single nil entry.
func ScenarioGrid(prefix string, axes GridAxes) []Scenario {
	starts := axes.StartingConcentrations
	if len(starts) == 0 {
		starts = []*catalog.StartingConcentration{nil}
	}
	refs := axes.References
	if len(refs) == 0 {
		refs = []*catalog.Reference{nil}
	}

	var out []Scenario
	for _, m := range axes.InputMatrices {
		for _, sub := range axes.Substances {
			for _, train := range axes.Trains {
				for _, sc := range starts {
					for _, ref := range refs {
						out = append(out, Scenario{
							Name:                  fmt.Sprintf("%s-%d", prefix, len(out)),
							InputMatrix:           m,
							Substance:             sub,
							Train:                 train.Clone(),
							StartingConcentration: sc,
							Reference:             ref,
						})
					}
				}
			}
		}
	}
	return out
}
