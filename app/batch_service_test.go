package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gotreat/adapters/excel"
	"gotreat/domain/catalog"
	"gotreat/domain/core"
	"gotreat/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pfoaGrid(t *testing.T) []simulation.Scenario {
	t.Helper()
	sub, err := catalog.SubstanceByID("pfoa")
	require.NoError(t, err)
	short, err := catalog.TrainFromIDs("wwt1")
	require.NoError(t, err)
	long, err := catalog.TrainFromIDs("wwt1", "wwmb", "wwro")
	require.NoError(t, err)
	return simulation.ScenarioGrid("pfoa", simulation.GridAxes{
		InputMatrices: []catalog.Matrix{catalog.RWW},
		Substances:    []catalog.Substance{sub},
		Trains:        []catalog.TreatmentTrain{short, long},
	})
}

func TestBatchService_RunIsIndependentOfWorkers(t *testing.T) {
	scenarios := pfoaGrid(t)

	serial, err := NewBatchService(newTestService(t), nil, 1).Run(context.Background(), BatchRequest{Scenarios: scenarios, Options: testOptions})
	require.NoError(t, err)
	parallel, err := NewBatchService(newTestService(t), nil, 4).Run(context.Background(), BatchRequest{Scenarios: scenarios, Options: testOptions})
	require.NoError(t, err)

	require.Len(t, serial.Results, 2)
	require.Len(t, parallel.Results, 2)
	for i := range scenarios {
		assert.Equal(t, scenarios[i].Name, serial.Results[i].Scenario)
		assert.Equal(t, serial.Results[i].FinalConcentration(), parallel.Results[i].FinalConcentration())
		assert.Equal(t, ScenarioSeed(testOptions.Seed, i), serial.Results[i].Manifest.Fingerprint.Options.Seed)
	}
	assert.Empty(t, serial.Files)
}

func TestBatchService_Export(t *testing.T) {
	dir := t.TempDir()
	svc := NewBatchService(newTestService(t), excel.NewExporter(), 2)

	res, err := svc.Run(context.Background(), BatchRequest{Scenarios: pfoaGrid(t), Options: testOptions, ExportDir: dir})
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(dir, "pfoa-0.xlsx"), res.Files[0])
	for _, f := range res.Files {
		_, err := os.Stat(f)
		assert.NoError(t, err)
	}
}

func TestBatchService_FirstErrorFails(t *testing.T) {
	scenarios := pfoaGrid(t)
	bad, err := catalog.TrainFromIDs("gruc")
	require.NoError(t, err)
	scenarios[1].Train = bad

	_, err = NewBatchService(newTestService(t), nil, 2).Run(context.Background(), BatchRequest{Scenarios: scenarios, Options: testOptions})
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "pfoa-1")
}

func TestScenarioSeed(t *testing.T) {
	assert.Equal(t, ScenarioSeed(1, 3), ScenarioSeed(1, 3))
	assert.NotEqual(t, ScenarioSeed(1, 3), ScenarioSeed(1, 4))
}
