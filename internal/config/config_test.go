package config

import (
	"testing"

	apperrors "gotreat/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"GOTREAT_RUNS", "GOTREAT_RESOLUTION", "GOTREAT_PRIOR_POWER", "GOTREAT_SEED", "GOTREAT_WORKERS", "GOTREAT_MAX_RUNS", "GOTREAT_MAX_RESOLUTION", "LITERATURE_SOURCE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Simulation.Runs)
	assert.Equal(t, 1000, cfg.Simulation.Resolution)
	assert.Equal(t, 100.0, cfg.Simulation.PriorPower)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, 100000, cfg.Simulation.MaxRuns)
	assert.Equal(t, 10000, cfg.Simulation.MaxResolution)
	assert.Equal(t, LiteratureEmbedded, cfg.Literature.Source)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOTREAT_RUNS", "500")
	t.Setenv("GOTREAT_SEED", "7")
	t.Setenv("LITERATURE_SOURCE", "DIR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Simulation.Runs)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, LiteratureDir, cfg.Literature.Source)
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("LITERATURE_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestLoad_RejectsBadResolution(t *testing.T) {
	t.Setenv("GOTREAT_RESOLUTION", "2")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsRunCapBelowDefault(t *testing.T) {
	t.Setenv("GOTREAT_RUNS", "5000")
	t.Setenv("GOTREAT_MAX_RUNS", "1000")
	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}
