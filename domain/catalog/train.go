package catalog

import (
	"fmt"
)

// TreatmentTrain is an ordered sequence of treatments.
type TreatmentTrain struct {
	Steps []Treatment `json:"steps"`
}

// NewTreatmentTrain builds a train from the given steps in order.
func NewTreatmentTrain(steps ...Treatment) TreatmentTrain {
	return TreatmentTrain{Steps: append([]Treatment(nil), steps...)}
}

// TrainFromIDs builds a train from catalog treatment ids.
func TrainFromIDs(ids ...string) (TreatmentTrain, error) {
	steps := make([]Treatment, 0, len(ids))
	for _, id := range ids {
		t, err := TreatmentByID(id)
		if err != nil {
			return TreatmentTrain{}, err
		}
		steps = append(steps, t)
	}
	return TreatmentTrain{Steps: steps}, nil
}

// Len returns the number of steps.
func (tt TreatmentTrain) Len() int { return len(tt.Steps) }

// IDs lists the treatment ids in order.
func (tt TreatmentTrain) IDs() []string {
	ids := make([]string, len(tt.Steps))
	for i, t := range tt.Steps {
		ids[i] = t.ID
	}
	return ids
}

// Clone returns a deep copy so that configuring one train never affects another.
func (tt TreatmentTrain) Clone() TreatmentTrain {
	steps := make([]Treatment, len(tt.Steps))
	for i, t := range tt.Steps {
		steps[i] = t.Clone()
	}
	return TreatmentTrain{Steps: steps}
}

// WithStep returns a copy with step i replaced.
func (tt TreatmentTrain) WithStep(i int, t Treatment) TreatmentTrain {
	c := tt.Clone()
	c.Steps[i] = t.Clone()
	return c
}

// ValidateMatrices checks that every step accepts the matrix produced by the
// step before it, starting from input.
func (tt TreatmentTrain) ValidateMatrices(input Matrix) error {
	current := input
	for i, t := range tt.Steps {
		if !t.Accepts(current) {
			return newIncompatibleMatrixError(i, t, current)
		}
		current = t.OutputMatrixFor(current)
	}
	return nil
}

// ValidateMixtures checks that every mixture-type step has a mixture attached
// and that no other step carries one.
func (tt TreatmentTrain) ValidateMixtures() error {
	for i, t := range tt.Steps {
		if t.RequiresMixture() && t.Mixture == nil {
			return newMissingMixtureError(i, t)
		}
		if !t.RequiresMixture() && t.Mixture != nil {
			return newMixtureNotSupportedError(i, t)
		}
	}
	return nil
}

// OutputMatrix returns the matrix leaving the last step.
func (tt TreatmentTrain) OutputMatrix(input Matrix) Matrix {
	out := input
	for _, t := range tt.Steps {
		out = t.OutputMatrixFor(out)
	}
	return out
}

// MatrixStep records the matrices entering and leaving one step.
type MatrixStep struct {
	Input  Matrix
	Output Matrix
}

// MatrixFlow returns the matrix entering and leaving every step.
func (tt TreatmentTrain) MatrixFlow(input Matrix) []MatrixStep {
	flow := make([]MatrixStep, len(tt.Steps))
	current := input
	for i, t := range tt.Steps {
		out := t.OutputMatrixFor(current)
		flow[i] = MatrixStep{Input: current, Output: out}
		current = out
	}
	return flow
}

func (tt TreatmentTrain) String() string { return fmt.Sprintf("TreatmentTrain%v", tt.IDs()) }
