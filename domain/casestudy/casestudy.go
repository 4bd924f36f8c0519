// Package casestudy holds site-specific observations that override
// literature data for matching treatments, substances and matrices.
package casestudy

import (
	"fmt"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
)

// MixtureEntry binds mixture data to a treatment and substance. An empty
// Scenario matches every scenario.
type MixtureEntry struct {
	catalog.Mixture `yaml:",inline"`
	TreatmentID     string `json:"treatment" yaml:"treatment"`
	SubstanceID     string `json:"substance" yaml:"substance"`
	Scenario        string `json:"scenario,omitempty" yaml:"scenario,omitempty"`
}

// RemovalEntry holds observed removal percentages of one treatment for one
// substance.
type RemovalEntry struct {
	TreatmentID string                 `json:"treatment" yaml:"treatment"`
	SubstanceID string                 `json:"substance" yaml:"substance"`
	Values      catalog.RemovalPercent `json:"values" yaml:"values"`
}

// ReferenceEntry binds a reference value to a substance in a matrix.
type ReferenceEntry struct {
	catalog.Reference `yaml:",inline"`
	SubstanceID       string `json:"substance" yaml:"substance"`
	MatrixID          string `json:"matrix" yaml:"matrix"`
}

// WarnFunc receives a message when a lookup matches more than one entry.
type WarnFunc func(format string, args ...interface{})

// CaseStudy is a named collection of site data. Lookups take the first
// matching entry.
type CaseStudy struct {
	Name                   string                          `json:"name" yaml:"name"`
	Mixtures               []MixtureEntry                  `json:"mixtures,omitempty" yaml:"mixtures,omitempty"`
	RemovalPercents        []RemovalEntry                  `json:"removal_percents,omitempty" yaml:"removal_percents,omitempty"`
	References             []ReferenceEntry                `json:"references,omitempty" yaml:"references,omitempty"`
	StartingConcentrations []catalog.StartingConcentration `json:"starting_concentrations,omitempty" yaml:"starting_concentrations,omitempty"`

	warn WarnFunc
}

// OnAmbiguous installs the callback used for ambiguous lookups.
func (cs *CaseStudy) OnAmbiguous(fn WarnFunc) { cs.warn = fn }

func (cs *CaseStudy) ambiguous(kind string, n int, key ...string) {
	if cs.warn != nil && n > 1 {
		cs.warn("case study %q: %d %s entries match %v, using the first", cs.Name, n, kind, key)
	}
}

// StudyName returns the case study name.
func (cs *CaseStudy) StudyName() string { return cs.Name }

// Validate checks that every entry refers to catalog ids and that mixtures
// are only attached to treatments that take them.
func (cs *CaseStudy) Validate() error {
	if cs.Name == "" {
		return fmt.Errorf("%w: case study name is empty", core.ErrInvalidSimulationArg)
	}
	for i, m := range cs.Mixtures {
		t, err := catalog.TreatmentByID(m.TreatmentID)
		if err != nil {
			return fmt.Errorf("mixture %d: %w", i, err)
		}
		if !t.RequiresMixture() {
			return fmt.Errorf("mixture %d: %w: %s", i, core.ErrMixtureNotSupported, t.ID)
		}
		if _, err := catalog.SubstanceByID(m.SubstanceID); err != nil {
			return fmt.Errorf("mixture %d: %w", i, err)
		}
		if err := m.Mixture.Validate(); err != nil {
			return fmt.Errorf("mixture %d: %w", i, err)
		}
	}
	for i, r := range cs.RemovalPercents {
		t, err := catalog.TreatmentByID(r.TreatmentID)
		if err != nil {
			return fmt.Errorf("removal %d: %w", i, err)
		}
		if t.RequiresMixture() {
			return fmt.Errorf("removal %d: %w: %s", i, core.ErrRemovalNotSupported, t.ID)
		}
		if _, err := catalog.SubstanceByID(r.SubstanceID); err != nil {
			return fmt.Errorf("removal %d: %w", i, err)
		}
	}
	for i, r := range cs.References {
		if _, err := catalog.SubstanceByID(r.SubstanceID); err != nil {
			return fmt.Errorf("reference %d: %w", i, err)
		}
		if _, err := catalog.MatrixByID(r.MatrixID); err != nil {
			return fmt.Errorf("reference %d: %w", i, err)
		}
	}
	for i, s := range cs.StartingConcentrations {
		if s.Len() == 0 {
			return fmt.Errorf("starting concentration %d: %w: no values", i, core.ErrInvalidSimulationArg)
		}
		if _, err := catalog.SubstanceByID(s.SubstanceID); err != nil {
			return fmt.Errorf("starting concentration %d: %w", i, err)
		}
		if _, err := catalog.MatrixByID(s.MatrixID); err != nil {
			return fmt.Errorf("starting concentration %d: %w", i, err)
		}
	}
	return nil
}

// StartingConcentrationFor returns the site concentrations of the substance
// in the matrix, or nil.
func (cs *CaseStudy) StartingConcentrationFor(sub catalog.Substance, m catalog.Matrix) *catalog.StartingConcentration {
	var found *catalog.StartingConcentration
	n := 0
	for i := range cs.StartingConcentrations {
		s := cs.StartingConcentrations[i]
		if s.SubstanceID != sub.ID || s.MatrixID != m.ID {
			continue
		}
		if found == nil {
			s.Values = append([]float64(nil), s.Values...)
			found = &s
		}
		n++
	}
	cs.ambiguous("starting concentration", n, sub.ID, m.ID)
	return found
}

// RemovalPercentsFor returns the site removals for every step; steps
// without data get an empty set.
func (cs *CaseStudy) RemovalPercentsFor(train catalog.TreatmentTrain, sub catalog.Substance) []catalog.RemovalPercent {
	out := make([]catalog.RemovalPercent, train.Len())
	for i, t := range train.Steps {
		n := 0
		for _, r := range cs.RemovalPercents {
			if r.TreatmentID != t.ID || r.SubstanceID != sub.ID {
				continue
			}
			if n == 0 {
				out[i] = r.Values.Clone()
			}
			n++
		}
		cs.ambiguous("removal", n, t.ID, sub.ID)
	}
	return out
}

// MixturesFor returns the site mixture for every step, nil where none
// matches. Entries tagged with a scenario only match that scenario.
func (cs *CaseStudy) MixturesFor(train catalog.TreatmentTrain, sub catalog.Substance, scenario string) []*catalog.Mixture {
	out := make([]*catalog.Mixture, train.Len())
	for i, t := range train.Steps {
		n := 0
		for _, m := range cs.Mixtures {
			if m.TreatmentID != t.ID || m.SubstanceID != sub.ID {
				continue
			}
			if m.Scenario != "" && m.Scenario != scenario {
				continue
			}
			if n == 0 {
				mix := m.Mixture
				out[i] = &mix
			}
			n++
		}
		cs.ambiguous("mixture", n, t.ID, sub.ID, scenario)
	}
	return out
}

// ReferenceFor returns the site reference of the substance in the matrix,
// or nil.
func (cs *CaseStudy) ReferenceFor(sub catalog.Substance, m catalog.Matrix) *catalog.Reference {
	var found *catalog.Reference
	n := 0
	for _, r := range cs.References {
		if r.SubstanceID != sub.ID || r.MatrixID != m.ID {
			continue
		}
		if found == nil {
			ref := r.Reference
			found = &ref
		}
		n++
	}
	cs.ambiguous("reference", n, sub.ID, m.ID)
	return found
}
