package ports

import "gotreat/domain/catalog"

// CaseStudyProvider supplies site-specific data that takes precedence over
// literature values. Every lookup returns nil (or empty) when the case study
// has nothing for the key.
type CaseStudyProvider interface {
	StudyName() string
	StartingConcentrationFor(substance catalog.Substance, matrix catalog.Matrix) *catalog.StartingConcentration
	// RemovalPercentsFor returns one entry per train step.
	RemovalPercentsFor(train catalog.TreatmentTrain, substance catalog.Substance) []catalog.RemovalPercent
	// MixturesFor returns one entry per train step, nil where no mixture applies.
	MixturesFor(train catalog.TreatmentTrain, substance catalog.Substance, scenario string) []*catalog.Mixture
	ReferenceFor(substance catalog.Substance, matrix catalog.Matrix) *catalog.Reference
}
