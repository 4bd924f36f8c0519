package literature

import (
	"context"
	"testing"
	"testing/fstest"

	"gotreat/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func embeddedRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewEmbeddedRepository()
	require.NoError(t, err)
	return repo
}

func TestEmbedded_StartingConcentrations(t *testing.T) {
	repo := embeddedRepo(t)
	ctx := context.Background()

	values, err := repo.StartingConcentrations(ctx, "pfoa", "rww")
	require.NoError(t, err)
	// mins first, then points, then maxes
	assert.Equal(t, []float64{2.1, 12.4, 38.5}, values)

	none, err := repo.StartingConcentrations(ctx, "pfoa", "grw")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEmbedded_RemovalPercentsAreRounded(t *testing.T) {
	repo := embeddedRepo(t)
	rmv, err := repo.RemovalPercents(context.Background(), "wwro", "pfoa")
	require.NoError(t, err)
	assert.Equal(t, catalog.RemovalPercent{95, 99, 99}, rmv)

	rmv, err = repo.RemovalPercents(context.Background(), "wwmb", "pfoa")
	require.NoError(t, err)
	assert.Equal(t, catalog.RemovalPercent{10, 25, 31}, rmv)
}

func TestEmbedded_Reference(t *testing.T) {
	repo := embeddedRepo(t)
	ref, n, err := repo.Reference(context.Background(), "drw", "pfoa")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, 1, n)
	assert.Equal(t, 6.13, ref.ValueNgL)
	assert.Equal(t, 2023, ref.Year)

	ref, _, err = repo.Reference(context.Background(), "drw", "benzo")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, -1, ref.Year)

	ref, n, err = repo.Reference(context.Background(), "tww", "pfoa")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.Zero(t, n)
}

func TestEmbedded_IDsExistInCatalog(t *testing.T) {
	tables := embeddedRepo(t).Tables()
	for _, r := range tables.Concentrations {
		_, err := catalog.SubstanceByID(r.SubstanceID)
		assert.NoError(t, err)
		_, err = catalog.MatrixByID(r.MatrixID)
		assert.NoError(t, err)
	}
	for _, r := range tables.Removals {
		_, err := catalog.TreatmentByID(r.TreatmentID)
		assert.NoError(t, err, r.TreatmentID)
	}
}

func TestLoadFS_MissingColumns(t *testing.T) {
	fsys := fstest.MapFS{
		"starting_concentration.csv": {Data: []byte("substance_id;matrix_id\n")},
		"process_removal_lit.csv":    {Data: []byte("substance_id;treatment_id;removal_percent\n")},
		"reference_lit.csv":          {Data: []byte("substance_id;matrix_id;reference_value_ng_l;reference_id;year;comments\n")},
	}
	_, err := LoadFS(fsys)
	assert.ErrorContains(t, err, "expected columns")
}

func TestLoadFS_BadNumber(t *testing.T) {
	fsys := fstest.MapFS{
		"starting_concentration.csv": {Data: []byte("substance_id;matrix_id;min_value_ng_l;point_value_ng_l;max_value_ng_l\npfoa;rww;x;;\n")},
		"process_removal_lit.csv":    {Data: []byte("substance_id;treatment_id;removal_percent\n")},
		"reference_lit.csv":          {Data: []byte("substance_id;matrix_id;reference_value_ng_l;reference_id;year;comments\n")},
	}
	_, err := LoadFS(fsys)
	assert.ErrorContains(t, err, "row 2")
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) StartingConcentrations(ctx context.Context, substanceID, matrixID string) ([]float64, error) {
	args := m.Called(ctx, substanceID, matrixID)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockRepository) RemovalPercents(ctx context.Context, treatmentID, substanceID string) (catalog.RemovalPercent, error) {
	args := m.Called(ctx, treatmentID, substanceID)
	return args.Get(0).(catalog.RemovalPercent), args.Error(1)
}

func (m *mockRepository) Reference(ctx context.Context, matrixID, substanceID string) (*catalog.Reference, int, error) {
	args := m.Called(ctx, matrixID, substanceID)
	return args.Get(0).(*catalog.Reference), args.Int(1), args.Error(2)
}

func TestCachedRepository_MemoisesPerKey(t *testing.T) {
	ctx := context.Background()
	next := new(mockRepository)
	next.On("RemovalPercents", ctx, "wwt1", "pfoa").Return(catalog.RemovalPercent{1, 2}, nil).Once()
	next.On("StartingConcentrations", ctx, "pfoa", "rww").Return([]float64{5, 10}, nil).Once()
	next.On("Reference", ctx, "drw", "pfoa").Return((*catalog.Reference)(nil), 0, nil).Once()

	c := NewCachedRepository(next)
	for i := 0; i < 3; i++ {
		rmv, err := c.RemovalPercents(ctx, "wwt1", "pfoa")
		require.NoError(t, err)
		assert.Equal(t, catalog.RemovalPercent{1, 2}, rmv)

		start, err := c.StartingConcentrations(ctx, "pfoa", "rww")
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 10}, start)

		ref, n, err := c.Reference(ctx, "drw", "pfoa")
		require.NoError(t, err)
		assert.Nil(t, ref)
		assert.Zero(t, n)
	}
	next.AssertExpectations(t)

	// mutating a returned slice does not poison the cache
	rmv, _ := c.RemovalPercents(ctx, "wwt1", "pfoa")
	rmv[0] = 99
	again, _ := c.RemovalPercents(ctx, "wwt1", "pfoa")
	assert.Equal(t, 1.0, again[0])
}
