package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

func sampleCollection() *workspace.Collection {
	return &workspace.Collection{
		Workspaces: []workspace.Workspace{
			{
				ID: "w1", Name: "Research", Description: "papers",
				Tabs: []workspace.TabDescriptor{
					{ID: "t1", Kind: workspace.KindDocument, Payload: workspace.Payload{"id": "20240101-abc"}, Title: "Notes"},
					{ID: "t2", Kind: workspace.KindGraph, Title: "Graph"},
				},
				CreatedAt: 1_700_000_000_000, UpdatedAt: 1_700_000_005_000,
			},
			{
				ID: "w2", Name: "Cooking",
				Tabs:      []workspace.TabDescriptor{},
				CreatedAt: 1_700_000_001_000, UpdatedAt: 1_700_000_001_000,
			},
		},
		CurrentWorkspaceID: "w1",
	}
}

func (e *testEnv) seed(t *testing.T, c *workspace.Collection) {
	t.Helper()
	require.NoError(t, e.store.Save(context.Background(), e.deps.key(), c))
}

func (e *testEnv) stored(t *testing.T) *workspace.Collection {
	t.Helper()
	c, _, err := e.store.Load(context.Background(), e.deps.key())
	require.NoError(t, err)
	return c
}

func TestExportImport_JSONRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, sampleCollection())

	path := filepath.Join(env.dir, "backup.json")
	out, err := Export(ctx, env.deps, ExportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, path, out.Path)
	require.Equal(t, FormatJSON, out.Format)
	require.Equal(t, 2, out.Count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, true, doc["_nook_export"])
	require.EqualValues(t, ExportSchemaVersion, doc["schema_version"])
	require.EqualValues(t, out.ExportedAt, doc["exported_at"])

	env.seed(t, workspace.NewCollection())
	imp, err := Import(ctx, env.deps, ImportInput{Path: path, Mode: ImportModeReplace})
	require.NoError(t, err)
	require.Equal(t, 2, imp.Imported)
	require.Equal(t, 2, imp.Total)
	require.False(t, imp.Repaired)
	require.Equal(t, "w1", imp.CurrentWorkspaceID)
	require.Equal(t, sampleCollection(), env.stored(t))
}

func TestExportImport_YAMLRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, sampleCollection())

	path := filepath.Join(env.dir, "backup.yaml")
	out, err := Export(ctx, env.deps, ExportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, FormatYAML, out.Format)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "_nook_export: true")
	require.Contains(t, text, "currentWorkspaceId: w1")
	require.Contains(t, text, "createdAt: 1700000000000")

	env.seed(t, workspace.NewCollection())
	_, err = Import(ctx, env.deps, ImportInput{Path: path, Mode: ImportModeReplace})
	require.NoError(t, err)
	require.Equal(t, sampleCollection(), env.stored(t))
}

func TestImport_MergeSkipsExistingIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, sampleCollection())

	path := filepath.Join(env.dir, "backup.json")
	_, err := Export(ctx, env.deps, ExportInput{Path: path})
	require.NoError(t, err)

	local := &workspace.Collection{Workspaces: []workspace.Workspace{
		{ID: "w2", Name: "Local cooking", Tabs: []workspace.TabDescriptor{}, CreatedAt: 5, UpdatedAt: 5},
	}}
	env.seed(t, local)

	imp, err := Import(ctx, env.deps, ImportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, ImportModeMerge, imp.Mode)
	require.Equal(t, 1, imp.Imported)
	require.Equal(t, 1, imp.Skipped)
	require.Equal(t, 2, imp.Total)
	require.Empty(t, imp.CurrentWorkspaceID, "merge keeps the local current pointer")

	got := env.stored(t)
	require.Len(t, got.Workspaces, 2)
	require.Equal(t, "Local cooking", got.Workspaces[0].Name)
	require.Equal(t, "w1", got.Workspaces[1].ID)
}

func TestImport_BareCollection(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "bare.json")
	doc := `{"workspaces":[{"id":"x","name":"X","tabs":[{"id":"t","kind":"doc","title":"Old"},42]},{"name":"no id"}],"currentWorkspaceId":"x"}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	imp, err := Import(context.Background(), env.deps, ImportInput{Path: path, Mode: ImportModeReplace})
	require.NoError(t, err)
	require.Equal(t, 1, imp.Imported)
	require.True(t, imp.Repaired)
	require.Equal(t, "x", imp.CurrentWorkspaceID)

	got := env.stored(t)
	require.Len(t, got.Workspaces[0].Tabs, 1)
	require.Equal(t, workspace.KindDocument, got.Workspaces[0].Tabs[0].Kind)
}

// Import changes stored state only; the open tabs stay as they are.
func TestImport_LeavesLayoutAlone(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Local", "")
	env.openDoc(t, "a", "Open doc")

	path := filepath.Join(env.dir, "backup.json")
	other := newTestEnv(t)
	other.seed(t, sampleCollection())
	other.deps.Config.AllowedPaths = []string{env.dir}
	_, err := Export(context.Background(), other.deps, ExportInput{Path: path})
	require.NoError(t, err)

	imp, err := Import(context.Background(), env.deps, ImportInput{Path: path, Mode: ImportModeReplace})
	require.NoError(t, err)
	require.Equal(t, "w1", imp.CurrentWorkspaceID)
	require.Equal(t, []string{"Open doc"}, env.liveTitles(t))
}

func TestImport_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	write := func(name, content string) string {
		p := filepath.Join(env.dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
		return p
	}

	tests := []struct {
		name  string
		input ImportInput
	}{
		{"missing path", ImportInput{}},
		{"bad mode", ImportInput{Path: write("a.json", `{}`), Mode: "rename"}},
		{"newer schema", ImportInput{Path: write("b.json", `{"_nook_export":true,"schema_version":99,"collection":{"workspaces":[]}}`)}},
		{"no collection", ImportInput{Path: write("c.json", `{"_nook_export":true,"schema_version":1}`)}},
		{"not an object", ImportInput{Path: write("d.json", `[1,2]`)}},
		{"bad yaml", ImportInput{Path: write("e.yaml", "a: [unclosed")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Import(ctx, env.deps, tc.input)
			require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
		})
	}

	_, err := Import(ctx, env.deps, ImportInput{Path: filepath.Join(env.dir, "missing.json")})
	require.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestExport_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := Export(ctx, env.deps, ExportInput{Path: filepath.Join(env.dir, "out.txt")})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Export(ctx, env.deps, ExportInput{Path: filepath.Join(t.TempDir(), "out.json")})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Export(ctx, env.deps, ExportInput{Path: filepath.Join(env.dir, "out.json"), Format: "toml"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestExport_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	path := filepath.Join(env.dir, "backup.json")

	env.seed(t, sampleCollection())
	_, err := Export(ctx, env.deps, ExportInput{Path: path})
	require.NoError(t, err)

	env.seed(t, workspace.NewCollection())
	out, err := Export(ctx, env.deps, ExportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 0, out.Count)

	entries, err := os.ReadDir(env.dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}
