package simulation

import (
	"fmt"

	"gotreat/domain/core"
)

// CodeVersion is recorded in every manifest so replays can detect model
// changes.
const CodeVersion = "0.3.0"

// Options are the numerical settings of one simulation run.
type Options struct {
	Runs       int     `json:"n_runs"`
	Resolution int     `json:"removal_factor_resolution"`
	PriorPower float64 `json:"prior_power"`
	Seed       uint64  `json:"seed"`
}

// Validate rejects settings the estimator cannot work with.
func (o Options) Validate() error {
	if o.Runs <= 0 {
		return fmt.Errorf("%w: n_runs must be positive, got %d", core.ErrInvalidSimulationArg, o.Runs)
	}
	if o.Resolution < 3 {
		return fmt.Errorf("%w: resolution must be at least 3, got %d", core.ErrInvalidSimulationArg, o.Resolution)
	}
	if o.PriorPower <= 2 {
		return fmt.Errorf("%w: prior power must exceed 2, got %g", core.ErrInvalidSimulationArg, o.PriorPower)
	}
	return nil
}

// RunFingerprint ties a result to everything needed to replay it.
type RunFingerprint struct {
	Scenario    core.ScenarioFingerprint `json:"scenario"`
	Options     Options                  `json:"options"`
	CodeVersion string                   `json:"code_version"`
	Fingerprint core.Hash                `json:"fingerprint"`
}

// NewRunFingerprint hashes the scenario fingerprint together with the run
// options and code version.
func NewRunFingerprint(scenario core.ScenarioFingerprint, opts Options, codeVersion string) RunFingerprint {
	data := fmt.Sprintf("scenario:%s|runs:%d|resolution:%d|power:%g|seed:%d|code:%s",
		scenario, opts.Runs, opts.Resolution, opts.PriorPower, opts.Seed, codeVersion)
	return RunFingerprint{
		Scenario:    scenario,
		Options:     opts,
		CodeVersion: codeVersion,
		Fingerprint: core.NewHash([]byte(data)),
	}
}

// Manifest describes a finished run.
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Fingerprint RunFingerprint `json:"fingerprint"`
	CaseStudy   string         `json:"case_study,omitempty"`
	CreatedAt   core.Timestamp `json:"created_at"`
	Elapsed     core.Elapsed   `json:"elapsed"`
}

// Validate checks that the manifest is complete.
func (m Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("%w: run_id cannot be empty", core.ErrInvalidSimulationArg)
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return fmt.Errorf("%w: fingerprint cannot be empty", core.ErrInvalidSimulationArg)
	}
	if m.Fingerprint.CodeVersion == "" {
		return fmt.Errorf("%w: code_version cannot be empty", core.ErrInvalidSimulationArg)
	}
	return nil
}
