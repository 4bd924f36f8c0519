package app

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"

	"gotreat/adapters/literature"
	"gotreat/adapters/rng"
	"gotreat/domain/casestudy"
	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/process"
	"gotreat/domain/simulation"
	processmodels "gotreat/internal/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRNG struct {
	mock.Mock
}

func (m *mockRNG) SeededStream(ctx context.Context, name string, seed uint64) (*rand.Rand, error) {
	args := m.Called(ctx, name, seed)
	r, _ := args.Get(0).(*rand.Rand)
	return r, args.Error(1)
}

var testOptions = simulation.Options{Runs: 200, Resolution: 200, PriorPower: 100, Seed: 7}

func newTestService(t *testing.T) *SimulationService {
	t.Helper()
	repo, err := literature.NewEmbeddedRepository()
	require.NoError(t, err)
	return NewSimulationService(literature.NewCachedRepository(repo), rng.NewPCGAdapter())
}

func scenario(t *testing.T, name, substanceID string, input catalog.Matrix, ids ...string) simulation.Scenario {
	t.Helper()
	sub, err := catalog.SubstanceByID(substanceID)
	require.NoError(t, err)
	train, err := catalog.TrainFromIDs(ids...)
	require.NoError(t, err)
	return simulation.Scenario{Name: name, InputMatrix: input, Substance: sub, Train: train}
}

func TestSimulate_PFOAWastewaterTrain(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "pfoa", "pfoa", catalog.RWW, "wwt1", "wwmb", "wwuf", "wwro")

	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)

	require.Len(t, res.StartC, testOptions.Runs)
	require.Len(t, res.Steps, 4)
	for i, step := range res.Steps {
		assert.Equal(t, process.Generic, step.Type, "step %d", i)
		require.Len(t, step.Output, testOptions.Runs)
		for _, v := range step.Output {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
	for _, v := range res.StartC {
		assert.GreaterOrEqual(t, v, 2.1)
		assert.LessOrEqual(t, v, 38.5)
	}

	assert.Len(t, res.TreatmentTable(), 4)
	assert.Equal(t, "tww", res.OutputMatrix.ID)
	assert.True(t, res.Reference.IsPlaceholder())
	assert.Equal(t, core.ComputeScenarioFingerprint("pfoa", "rww", []string{"wwt1", "wwmb", "wwuf", "wwro"}), res.Manifest.Fingerprint.Scenario)
	assert.NoError(t, res.Manifest.Validate())
}

func TestSimulate_Reproducible(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "pfoa", "pfoa", catalog.RWW, "wwt1", "wwmb")

	a, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)
	b, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)

	assert.Equal(t, a.StartC, b.StartC)
	assert.Equal(t, a.FinalConcentration(), b.FinalConcentration())
	assert.Equal(t, a.Manifest.Fingerprint.Fingerprint, b.Manifest.Fingerprint.Fingerprint)
	assert.NotEqual(t, a.Manifest.RunID, b.Manifest.RunID)
}

func TestSimulate_IncompatibleMatrixBeforeSampling(t *testing.T) {
	rngPort := &mockRNG{}
	repo, err := literature.NewEmbeddedRepository()
	require.NoError(t, err)
	svc := NewSimulationService(repo, rngPort)

	sc := scenario(t, "gruc", "pfoa", catalog.RWW, "gruc")
	_, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})

	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.ErrorIs(t, err, core.ErrIncompatibleMatrix)
	assert.Contains(t, err.Error(), "gruc")
	rngPort.AssertNotCalled(t, "SeededStream", mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulate_NoStartingConcentration(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "gruc", "pfoa", catalog.GRW, "gruc")

	_, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.Error(t, err)
	assert.True(t, core.IsDataAvailabilityError(err))
	assert.ErrorIs(t, err, core.ErrNoStartingConcentration)
}

func TestSimulate_MissingMixtureNamesStep(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "dil", "pfoa", catalog.RWW, "wwt1", "dilww")

	_, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingMixture)
	assert.Contains(t, err.Error(), "dilww")
	assert.Contains(t, err.Error(), "index 1")
}

func TestSimulate_CaseStudyMixture(t *testing.T) {
	svc := newTestService(t)
	cs := &casestudy.CaseStudy{
		Name: "site",
		Mixtures: []casestudy.MixtureEntry{{
			Mixture:     catalog.Mixture{X2Mean: 1, X2SD: 1, C2Mean: 1, C2SD: 1},
			TreatmentID: "dilww",
			SubstanceID: "pfoa",
			Scenario:    "mixed",
		}},
	}
	require.NoError(t, cs.Validate())

	sc := scenario(t, "mixed", "pfoa", catalog.RWW, "dilww", "wwt1")
	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions, CaseStudy: cs})
	require.NoError(t, err)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, process.Mixture, res.Steps[0].Type)
	assert.True(t, res.Steps[0].AverageOut)
	assert.Equal(t, process.Generic, res.Steps[1].Type)
	assert.Equal(t, "site", res.Manifest.CaseStudy)
	require.NotNil(t, res.Train.Steps[0].Mixture)

	// the caller's train is left untouched
	assert.Nil(t, sc.Train.Steps[0].Mixture)

	// a different scenario tag does not match
	sc.Name = "other"
	_, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions, CaseStudy: cs})
	assert.ErrorIs(t, err, core.ErrMissingMixture)
}

func TestSimulate_CaseStudyStartingConcentrationAndReference(t *testing.T) {
	svc := newTestService(t)
	cs := &casestudy.CaseStudy{
		Name:                   "site",
		StartingConcentrations: []catalog.StartingConcentration{{Values: []float64{100}, SubstanceID: "pfos", MatrixID: "rww"}},
		References: []casestudy.ReferenceEntry{{
			Reference:   catalog.Reference{ID: "site limit", ValueNgL: 4, Year: 2024},
			SubstanceID: "pfos",
			MatrixID:    "tww",
		}},
	}

	sc := scenario(t, "pfos", "pfos", catalog.RWW, "wwtt")
	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions, CaseStudy: cs})
	require.NoError(t, err)

	for _, v := range res.StartC {
		assert.Equal(t, 100.0, v)
	}
	assert.Equal(t, "site limit", res.Reference.ID)

	rq, err := res.RiskQuotients()
	require.NoError(t, err)
	assert.Len(t, rq, testOptions.Runs)
}

func TestSimulate_StartingConcentrationPrecedence(t *testing.T) {
	svc := newTestService(t)
	cs := &casestudy.CaseStudy{
		Name:                   "site",
		StartingConcentrations: []catalog.StartingConcentration{{Values: []float64{100}, SubstanceID: "pfoa", MatrixID: "rww"}},
	}
	sc := scenario(t, "pfoa", "pfoa", catalog.RWW, "wwt1")
	sc.StartingConcentration = &catalog.StartingConcentration{Values: []float64{50}}

	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.StartC[0])

	res, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions, CaseStudy: cs})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.StartC[0])

	sc.Substance = sc.Substance.WithStartingConcentration(catalog.StartingConcentration{Values: []float64{7}})
	res, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions, CaseStudy: cs})
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.StartC[0])
}

func TestSimulate_AttachedRemovalNeverExceedsInput(t *testing.T) {
	svc := newTestService(t)
	wwt1, err := catalog.MustTreatment("wwt1").WithRemoval(catalog.RemovalPercent{100, 100, 100})
	require.NoError(t, err)

	sub, err := catalog.SubstanceByID("pfoa")
	require.NoError(t, err)
	sc := simulation.Scenario{Name: "full", InputMatrix: catalog.RWW, Substance: sub, Train: catalog.NewTreatmentTrain(wwt1)}

	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)

	step := res.Steps[0]
	in := res.StartC
	// the step works on the reversed starting ensemble
	for i, out := range step.Output {
		assert.GreaterOrEqual(t, out, 0.0)
		assert.Less(t, out, in[len(in)-1-i])
	}
}

func TestSimulate_Sludge(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "sludge", "pfoa", catalog.RWW, "wwsl")

	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)
	assert.Equal(t, process.SeparationSludge, res.Steps[0].Type)
	assert.Equal(t, "sdg", res.OutputMatrix.ID)
}

// stepInput recovers the ensemble a step received from its output and
// removal factors: in = out / (1 - rmv/100).
func stepInput(step process.Result) []float64 {
	in := make([]float64, len(step.Output))
	for i, out := range step.Output {
		in[i] = out / (1 - step.RemovalFactors[i]/100)
	}
	return in
}

func TestSimulate_StepInputOrdering(t *testing.T) {
	svc := newTestService(t).WithSludgeOptions(processmodels.SludgeOptions{XEffMean: 0.5, XEffSD: 0})
	wwt1, err := catalog.MustTreatment("wwt1").WithRemoval(catalog.RemovalPercent{40, 50, 60})
	require.NoError(t, err)
	sub, err := catalog.SubstanceByID("pfoa")
	require.NoError(t, err)
	sc := simulation.Scenario{
		Name:        "ordering",
		InputMatrix: catalog.RWW,
		Substance:   sub,
		Train:       catalog.NewTreatmentTrain(wwt1, wwt1, catalog.MustTreatment("wwsl")),
	}

	res, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: testOptions})
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)
	require.True(t, sort.Float64sAreSorted(reversedCopy(res.StartC)), "starting ensemble is descending")

	// a generic step reverses its input
	assert.InEpsilonSlice(t, reversedCopy(res.StartC), stepInput(res.Steps[0]), 1e-9)

	// the next step gets the previous output sorted ascending, then reversed
	prev := slices.Clone(res.Steps[0].Output)
	slices.Sort(prev)
	assert.InEpsilonSlice(t, reversedCopy(prev), stepInput(res.Steps[1]), 1e-9)

	// the sludge step gets the previous output sorted ascending, unreversed
	prev = slices.Clone(res.Steps[1].Output)
	slices.Sort(prev)
	sludgeIn := stepInput(res.Steps[2])
	assert.InEpsilonSlice(t, prev, sludgeIn, 1e-9)
	assert.True(t, sort.Float64sAreSorted(sludgeIn))
	assert.Equal(t, process.SeparationSludge, res.Steps[2].Type)
}

func reversedCopy(x []float64) []float64 {
	out := slices.Clone(x)
	slices.Reverse(out)
	return out
}

func TestSimulate_InvalidOptions(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "pfoa", "pfoa", catalog.RWW, "wwt1")

	opts := testOptions
	opts.Runs = 0
	_, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: sc, Options: opts})
	assert.ErrorIs(t, err, core.ErrInvalidSimulationArg)
}

func TestSimulate_CancelledContext(t *testing.T) {
	svc := newTestService(t)
	sc := scenario(t, "pfoa", "pfoa", catalog.RWW, "wwt1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Simulate(ctx, SimulationRequest{Scenario: sc, Options: testOptions})
	assert.ErrorIs(t, err, context.Canceled)
}
