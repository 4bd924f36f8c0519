package catalog

import (
	"fmt"

	"gotreat/domain/core"
)

func newIncompatibleMatrixError(index int, t Treatment, m Matrix) error {
	return core.NewIncompatibleMatrixError(index, t.ID, m.ID, t.InputMatrixIDs())
}

func newMissingMixtureError(index int, t Treatment) error {
	return core.NewMissingMixtureError(index, t.ID)
}

func newMixtureNotSupportedError(index int, t Treatment) error {
	return fmt.Errorf("%w: treatment '%s' at index %d carries mixture data", core.ErrMixtureNotSupported, t.ID, index)
}
