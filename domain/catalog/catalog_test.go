package catalog

import (
	"testing"

	"gotreat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreatmentByID(t *testing.T) {
	wwt1, err := TreatmentByID("wwt1")
	require.NoError(t, err)
	assert.Equal(t, "Primary wastewater treatment", wwt1.Name)
	assert.True(t, wwt1.OutputMatrix.IsNoChange())

	_, err = TreatmentByID("nope")
	assert.ErrorIs(t, err, core.ErrTreatmentNotFound)
}

func TestCatalogIdsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, tr := range Treatments() {
		assert.False(t, seen[tr.ID], "duplicate treatment %s", tr.ID)
		seen[tr.ID] = true
		assert.NotEmpty(t, tr.InputMatrices, "treatment %s has no input matrices", tr.ID)
	}
	assert.Len(t, seen, len(allTreatments))

	subs := map[string]bool{}
	for _, s := range Substances() {
		assert.False(t, subs[s.ID], "duplicate substance %s", s.ID)
		subs[s.ID] = true
	}
}

func TestRequiresMixture(t *testing.T) {
	cases := map[string]bool{
		"dilsw": true,
		"dilww": true,
		"sepev": true,
		"wwsl":  false,
		"wwt1":  false,
		"dwac":  false,
	}
	for id, want := range cases {
		assert.Equal(t, want, MustTreatment(id).RequiresMixture(), id)
	}
}

func TestWithMixture_CopyOnConfigure(t *testing.T) {
	dilww := MustTreatment("dilww")
	configured, err := dilww.WithMixture(Mixture{X2Mean: 0.5, X2SD: 0.1, C2Mean: 1, C2SD: 0.1})
	require.NoError(t, err)
	require.NotNil(t, configured.Mixture)

	// the catalog entry stays untouched
	assert.Nil(t, MustTreatment("dilww").Mixture)
	assert.Nil(t, dilww.Mixture)
}

func TestMixtureRemovalExclusivity(t *testing.T) {
	_, err := MustTreatment("wwt1").WithMixture(Mixture{X2Mean: 0.5})
	assert.ErrorIs(t, err, core.ErrMixtureNotSupported)
	assert.True(t, core.IsConfigurationError(err))

	_, err = MustTreatment("sepev").WithRemoval(RemovalPercent{50})
	assert.ErrorIs(t, err, core.ErrRemovalNotSupported)

	withRemoval, err := MustTreatment("wwt1").WithRemoval(RemovalPercent{10, 20})
	require.NoError(t, err)
	assert.Equal(t, RemovalPercent{10, 20}, withRemoval.Removal)
}

func TestWithMixture_RejectsInvalidMixture(t *testing.T) {
	_, err := MustTreatment("dilsw").WithMixture(Mixture{X2Mean: 1.5})
	assert.True(t, core.IsConfigurationError(err))
}

func TestValidateMatrices(t *testing.T) {
	train, err := TrainFromIDs("wwt1", "wwmb", "wwuf", "wwro")
	require.NoError(t, err)
	assert.NoError(t, train.ValidateMatrices(RWW))

	bad, err := TrainFromIDs("gruc")
	require.NoError(t, err)
	err = bad.ValidateMatrices(RWW)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIncompatibleMatrix)
	assert.Contains(t, err.Error(), "gruc")
	assert.Contains(t, err.Error(), "index 0")
}

func TestValidateMixtures_NamesStep(t *testing.T) {
	train, err := TrainFromIDs("wwt1", "dilww")
	require.NoError(t, err)

	err = train.ValidateMixtures()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingMixture)
	assert.Contains(t, err.Error(), "dilww")
	assert.Contains(t, err.Error(), "index 1")

	dil, err := train.Steps[1].WithMixture(Mixture{X2Mean: 1, X2SD: 1, C2Mean: 1, C2SD: 1})
	require.NoError(t, err)
	assert.NoError(t, train.WithStep(1, dil).ValidateMixtures())
}

func TestOutputMatrix_RoundTrip(t *testing.T) {
	first, err := TrainFromIDs("wwt1", "wwtt", "dilsw")
	require.NoError(t, err)
	second, err := TrainFromIDs("npbk", "dwac")
	require.NoError(t, err)

	mid := first.OutputMatrix(RWW)
	assert.Equal(t, SUW, mid)
	chained := second.OutputMatrix(mid)

	manual := RWW
	for _, tr := range append(first.Steps, second.Steps...) {
		manual = tr.OutputMatrixFor(manual)
	}
	assert.Equal(t, manual, chained)
	assert.Equal(t, DRW, chained)

	flow := first.MatrixFlow(RWW)
	require.Len(t, flow, 3)
	assert.Equal(t, RWW, flow[0].Input)
	assert.Equal(t, RWW, flow[0].Output)
	assert.Equal(t, TWW, flow[1].Output)
	assert.Equal(t, TWW, flow[2].Input)
}

func TestMixtureFromMinMax(t *testing.T) {
	m := MixtureFromMinMax(0.2, 0.6, 0, 3.92)
	assert.InDelta(t, 0.4, m.X2Mean, 1e-12)
	assert.InDelta(t, 0.4/3.92, m.X2SD, 1e-12)
	assert.InDelta(t, 1.96, m.C2Mean, 1e-12)
	assert.InDelta(t, 1.0, m.C2SD, 1e-12)
	assert.Contains(t, m.Comments, "range between 0.2 and 0.6")
}

func TestSubstanceOverrides(t *testing.T) {
	pfoa, err := SubstanceByID("pfoa")
	require.NoError(t, err)
	assert.Equal(t, GroupPFAS, pfoa.Group)

	withStart := pfoa.WithStartingConcentration(StartingConcentration{Values: []float64{100}})
	require.NotNil(t, withStart.StartingConcentration)
	assert.Nil(t, pfoa.StartingConcentration)

	lo, hi := withStart.StartingConcentration.Range()
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 100.0, hi)
}
