package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"
	"gotreat/domain/simulation"
	"gotreat/internal"
	"gotreat/internal/bayes"
	processmodels "gotreat/internal/process"
	"gotreat/internal/sampling"
	"gotreat/ports"
)

// sludgeTreatmentID is the only step whose input keeps its incoming order.
const sludgeTreatmentID = "wwsl"

// separationTreatmentID withdraws a side stream instead of admixing one.
const separationTreatmentID = "sepev"

// rngStreamName names the random stream of a single simulation.
const rngStreamName = "simulation"

// SimulationService runs a scenario through its treatment train.
type SimulationService struct {
	literature ports.LiteratureRepository
	rngPort    ports.RNGPort
	sludge     processmodels.SludgeOptions
	logger     *internal.Logger
}

// SimulationRequest defines the inputs of one simulation. CaseStudy is
// optional.
type SimulationRequest struct {
	Scenario  simulation.Scenario
	Options   simulation.Options
	CaseStudy ports.CaseStudyProvider
}

// NewSimulationService creates a simulation service
func NewSimulationService(literature ports.LiteratureRepository, rngPort ports.RNGPort) *SimulationService {
	return &SimulationService{
		literature: literature,
		rngPort:    rngPort,
		sludge:     processmodels.DefaultSludgeOptions(),
		logger:     internal.DefaultLogger.With("simulation"),
	}
}

// WithSludgeOptions returns a copy of the service using opts for sludge
// dewatering steps.
func (s *SimulationService) WithSludgeOptions(opts processmodels.SludgeOptions) *SimulationService {
	c := *s
	c.sludge = opts
	return &c
}

// Simulate runs the scenario. The whole train is validated before any value
// is sampled; configuration errors therefore never cost a partial run.
func (s *SimulationService) Simulate(ctx context.Context, req SimulationRequest) (*simulation.Result, error) {
	startTime := time.Now()
	sc := req.Scenario
	cs := req.CaseStudy

	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	est, err := bayes.NewEstimator(req.Options.Resolution, req.Options.PriorPower)
	if err != nil {
		return nil, err
	}

	train, err := s.attachMixtures(sc, cs)
	if err != nil {
		return nil, err
	}
	sc.Train = train
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	removals := s.siteRemovals(train, sc.Substance, cs)

	start, err := s.resolveStartingConcentration(ctx, sc, cs)
	if err != nil {
		return nil, err
	}

	src, err := s.rngPort.SeededStream(ctx, rngStreamName, req.Options.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create random stream: %w", err)
	}

	lo, hi := start.Range()
	startC := sampling.UniformDescending(src, lo, hi, req.Options.Runs)
	s.logger.Debug("scenario %s: %d runs, starting concentration in [%g, %g] ng/L", sc.Name, req.Options.Runs, lo, hi)

	steps := make([]process.Result, 0, train.Len())
	input := startC
	for i, t := range train.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.ID != sludgeTreatmentID {
			input = reversed(input)
		}

		res, err := s.applyStep(ctx, src, est, t, input, removals[i], sc.Substance)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, t.ID, err)
		}
		s.logger.Debug("scenario %s: step %d %s -> %s, dominant %s", sc.Name, i, t.ID, res.Type, res.Dominant)
		steps = append(steps, res)

		input = slices.Clone(res.Output)
		slices.Sort(input)
	}

	outputMatrix := sc.OutputMatrix()
	ref, err := s.resolveReference(ctx, sc, outputMatrix, cs)
	if err != nil {
		return nil, err
	}

	caseStudyName := ""
	if cs != nil {
		caseStudyName = cs.StudyName()
	}

	return &simulation.Result{
		Manifest: simulation.Manifest{
			RunID:       core.NewRunID(),
			Fingerprint: simulation.NewRunFingerprint(sc.Fingerprint(), req.Options, simulation.CodeVersion),
			CaseStudy:   caseStudyName,
			CreatedAt:   core.Now(),
			Elapsed:     core.Elapsed(time.Since(startTime)),
		},
		Scenario:     sc.Name,
		Train:        train,
		Substance:    sc.Substance,
		InputMatrix:  sc.InputMatrix,
		Runs:         req.Options.Runs,
		Resolution:   req.Options.Resolution,
		StartC:       startC,
		Steps:        steps,
		Reference:    ref,
		OutputMatrix: outputMatrix,
	}, nil
}

// attachMixtures returns a copy of the train with the case-study mixtures of
// the scenario attached to their steps. Steps already carrying a mixture keep
// it when the case study has none.
func (s *SimulationService) attachMixtures(sc simulation.Scenario, cs ports.CaseStudyProvider) (catalog.TreatmentTrain, error) {
	train := sc.Train.Clone()
	if cs == nil {
		return train, nil
	}
	for i, m := range cs.MixturesFor(train, sc.Substance, sc.Name) {
		if m == nil {
			continue
		}
		t, err := train.Steps[i].WithMixture(*m)
		if err != nil {
			return catalog.TreatmentTrain{}, fmt.Errorf("case study %s, step %d: %w", cs.StudyName(), i, err)
		}
		train = train.WithStep(i, t)
	}
	return train, nil
}

// siteRemovals returns the case-study removal samples per step, falling back
// to the removals attached to the treatment itself.
func (s *SimulationService) siteRemovals(train catalog.TreatmentTrain, sub catalog.Substance, cs ports.CaseStudyProvider) []catalog.RemovalPercent {
	out := make([]catalog.RemovalPercent, train.Len())
	if cs != nil {
		copy(out, cs.RemovalPercentsFor(train, sub))
	}
	for i, t := range train.Steps {
		if out[i].IsEmpty() && !t.Removal.IsEmpty() {
			out[i] = t.Removal.Clone()
		}
	}
	return out
}

func (s *SimulationService) applyStep(ctx context.Context, src rand.Source, est *bayes.Estimator, t catalog.Treatment, input []float64, cs catalog.RemovalPercent, sub catalog.Substance) (process.Result, error) {
	switch {
	case t.ID == separationTreatmentID:
		return processmodels.ApplySeparation(src, input, *t.Mixture)
	case t.RequiresMixture():
		return processmodels.ApplyMixture(src, input, *t.Mixture)
	}

	var lit catalog.RemovalPercent
	if t.WithLitData {
		var err error
		lit, err = s.literature.RemovalPercents(ctx, t.ID, sub.ID)
		if err != nil {
			return process.Result{}, fmt.Errorf("failed to get literature removals: %w", err)
		}
	}
	if t.ID == sludgeTreatmentID {
		return processmodels.ApplySeparationSludge(src, input, lit, cs, est, s.sludge)
	}
	return processmodels.ApplyGeneric(src, input, lit, cs, est)
}

// resolveStartingConcentration picks the first available source: substance
// override, case study, scenario override, literature.
func (s *SimulationService) resolveStartingConcentration(ctx context.Context, sc simulation.Scenario, cs ports.CaseStudyProvider) (catalog.StartingConcentration, error) {
	if sc.Substance.StartingConcentration != nil && sc.Substance.StartingConcentration.Len() > 0 {
		return *sc.Substance.StartingConcentration, nil
	}
	if cs != nil {
		if start := cs.StartingConcentrationFor(sc.Substance, sc.InputMatrix); start != nil && start.Len() > 0 {
			return *start, nil
		}
	}
	if sc.StartingConcentration != nil && sc.StartingConcentration.Len() > 0 {
		return *sc.StartingConcentration, nil
	}

	values, err := s.literature.StartingConcentrations(ctx, sc.Substance.ID, sc.InputMatrix.ID)
	if err != nil {
		return catalog.StartingConcentration{}, fmt.Errorf("failed to get literature starting concentrations: %w", err)
	}
	if len(values) == 0 {
		return catalog.StartingConcentration{}, core.NewNoStartingConcentrationError(sc.Substance.ID, sc.InputMatrix.ID)
	}
	return catalog.StartingConcentration{Values: values, SubstanceID: sc.Substance.ID, MatrixID: sc.InputMatrix.ID}, nil
}

// resolveReference picks the first available reference for the output
// matrix: scenario or substance override, case study, literature,
// placeholder.
func (s *SimulationService) resolveReference(ctx context.Context, sc simulation.Scenario, out catalog.Matrix, cs ports.CaseStudyProvider) (catalog.Reference, error) {
	if sc.Reference != nil {
		return *sc.Reference, nil
	}
	if sc.Substance.Reference != nil {
		return *sc.Substance.Reference, nil
	}
	if cs != nil {
		if ref := cs.ReferenceFor(sc.Substance, out); ref != nil {
			return *ref, nil
		}
	}

	ref, n, err := s.literature.Reference(ctx, out.ID, sc.Substance.ID)
	if err != nil {
		return catalog.Reference{}, fmt.Errorf("failed to get literature reference: %w", err)
	}
	if n > 1 {
		s.logger.Warn("%d literature references for %s in %s, using %s", n, sc.Substance.ID, out.ID, ref.ID)
	}
	if ref != nil {
		return *ref, nil
	}

	s.logger.Warn("no reference value for %s in %s, using placeholder", sc.Substance.ID, out.ID)
	return catalog.PlaceholderReference(), nil
}

func reversed(x []float64) []float64 {
	out := slices.Clone(x)
	slices.Reverse(out)
	return out
}
