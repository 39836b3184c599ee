package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternstudy/domain/core"
	"patternstudy/domain/run"
	"patternstudy/internal/reshape"
	"patternstudy/internal/testkit"
)

func newManifest(t *testing.T, counts run.Counts) *run.Manifest {
	t.Helper()
	m := run.NewManifest("data/export.tsv", core.NewHash([]byte("export")), "", "", "test")
	m.Counts = counts
	return m
}

func TestSaveAndLoadRun(t *testing.T) {
	kit := testkit.NewTestKit()
	result, err := reshape.NewReshaper().Reshape(testkit.WideTable(kit.NewRespondent(1), kit.NewRespondent(2)), nil)
	require.NoError(t, err)

	repo, err := Open(filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	manifest := newManifest(t, result.Counts)
	require.NoError(t, repo.SaveRun(ctx, manifest, result.Observations))

	loaded, err := repo.LoadObservations(ctx, manifest.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.Observations, loaded)

	runs, err := repo.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, manifest.RunID, runs[0])
}

func TestSaveRunReplacesPriorData(t *testing.T) {
	kit := testkit.NewTestKit()
	result, err := reshape.NewReshaper().Reshape(testkit.WideTable(kit.NewRespondent(1)), nil)
	require.NoError(t, err)

	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	manifest := newManifest(t, result.Counts)
	require.NoError(t, repo.SaveRun(ctx, manifest, result.Observations))

	// Saving again under the same run must not duplicate rows.
	require.NoError(t, repo.SaveRun(ctx, manifest, result.Observations[:10]))

	loaded, err := repo.LoadObservations(ctx, manifest.RunID)
	require.NoError(t, err)
	assert.Len(t, loaded, 10)
}

func TestSaveRunRejectsInvalidManifest(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	bad := &run.Manifest{}
	err = repo.SaveRun(context.Background(), bad, nil)
	assert.Error(t, err)
}

func TestLoadObservationsUnknownRun(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	loaded, err := repo.LoadObservations(context.Background(), core.RunID("missing"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
