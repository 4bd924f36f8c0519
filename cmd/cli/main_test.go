package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gotreat/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LITERATURE_SOURCE", "embedded")
	t.Setenv("CASE_STUDY_DIR", "")
	t.Setenv("GOTREAT_RUNS", "100")
	t.Setenv("GOTREAT_RESOLUTION", "100")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogTreatments(t *testing.T) {
	out, err := run(t, "catalog", "treatments")
	require.NoError(t, err)
	assert.Contains(t, out, "wwt1")
	assert.Contains(t, out, "dilww")
}

func TestSimulate_JSON(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "pfoa.xlsx")
	html := filepath.Join(dir, "pfoa.html")

	out, err := run(t, "simulate", "--substance", "pfoa", "--matrix", "rww", "--train", "wwt1,wwmb",
		"--format", "json", "--out", xlsx, "--report", html)
	require.NoError(t, err)

	var res simulation.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Steps, 2)
	assert.Equal(t, 100, res.Runs)

	for _, p := range []string{xlsx, html} {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestSimulate_MissingArguments(t *testing.T) {
	_, err := run(t, "simulate", "--substance", "pfoa")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix: pfas
input_matrices: [rww]
substances: [pfoa, pfos]
trains:
  - [wwt1, wwmb]
n_runs: 50
`), 0o644))

	out, err := run(t, "batch", path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "pfas-0")
	assert.Contains(t, out, "pfas-1")
}
