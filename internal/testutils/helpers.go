package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupModelRepo initializes a Loam repository in a temp dir and saves docs
// into it, keyed by document ID (e.g. "domain.md"). It returns the absolute
// path of the repository so tests can drop extra files next to the model.
func SetupModelRepo(t *testing.T, docs map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "init model repository")

	ctx := context.Background()
	for id, content := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: id, Content: content}), "save %s", id)
	}
	return absPath, repo
}
