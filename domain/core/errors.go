package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrTreatmentNotFound = fmt.Errorf("%w: treatment", ErrNotFound)
	ErrSubstanceNotFound = fmt.Errorf("%w: substance", ErrNotFound)
	ErrMatrixNotFound    = fmt.Errorf("%w: matrix", ErrNotFound)

	// Configuration errors (raised before any sampling happens)
	ErrConfiguration        = errors.New("invalid treatment train configuration")
	ErrIncompatibleMatrix   = fmt.Errorf("%w: incompatible input matrix", ErrConfiguration)
	ErrMissingMixture       = fmt.Errorf("%w: missing mixture data", ErrConfiguration)
	ErrMixtureNotSupported  = fmt.Errorf("%w: treatment does not accept mixtures", ErrConfiguration)
	ErrRemovalNotSupported  = fmt.Errorf("%w: treatment does not accept removal percents", ErrConfiguration)
	ErrFractionAtOne        = fmt.Errorf("%w: separated fraction fixed at 1", ErrConfiguration)
	ErrInvalidSimulationArg = fmt.Errorf("%w: invalid simulation argument", ErrConfiguration)

	// Data availability errors
	ErrDataUnavailable         = errors.New("data unavailable")
	ErrNoStartingConcentration = fmt.Errorf("%w: no starting concentration", ErrDataUnavailable)

	// Numeric errors
	ErrDegenerateLikelihood = errors.New("degenerate likelihood: removal samples have zero spread")
)

// NewIncompatibleMatrixError reports the first train position whose accepted
// input matrices exclude the matrix flowing into it.
func NewIncompatibleMatrixError(index int, treatmentID, matrixID string, accepted []string) error {
	return fmt.Errorf("%w ('%s') for treatment '%s' at index %d, expected one of %v",
		ErrIncompatibleMatrix, matrixID, treatmentID, index, accepted)
}

func NewMissingMixtureError(index int, treatmentID string) error {
	return fmt.Errorf("%w: expected treatment '%s' at index %d to contain mixture data", ErrMissingMixture, treatmentID, index)
}

func NewNoStartingConcentrationError(substanceID, matrixID string) error {
	return fmt.Errorf("%w for substance %s and input matrix %s", ErrNoStartingConcentration, substanceID, matrixID)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataAvailabilityError(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}
