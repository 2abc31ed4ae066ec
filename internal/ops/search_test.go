package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

func seedSearch(t *testing.T, env *testEnv) {
	t.Helper()
	c := &workspace.Collection{Workspaces: []workspace.Workspace{
		{ID: "w1", Name: "Kernel notes", Description: "scheduler reading", Tabs: []workspace.TabDescriptor{
			{ID: "t1", Kind: workspace.KindDocument, Payload: workspace.Payload{"id": "d1"}, Title: "Go scheduler"},
		}},
		{ID: "w2", Name: "Scheduler", Description: ""},
		{ID: "w3", Name: "Cooking", Description: "recipes", Tabs: []workspace.TabDescriptor{
			{ID: "t2", Kind: workspace.KindSearch, Payload: workspace.Payload{"keyword": "pasta"}, Title: "Search: pasta"},
		}},
	}}
	require.NoError(t, env.store.Save(context.Background(), env.deps.key(), c))
}

func TestSearch_RanksNameAboveDescriptionAboveTabs(t *testing.T) {
	env := newTestEnv(t)
	seedSearch(t, env)

	out, err := Search(context.Background(), env.deps, SearchInput{Query: "SCHEDULER"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	require.Equal(t, "relevance", out.Sort)

	// w2 matches by name (10); w1 by description and a tab (3+1).
	require.Equal(t, "w2", out.Items[0].ID)
	require.Equal(t, []string{"name"}, out.Items[0].Matches)
	require.Equal(t, "w1", out.Items[1].ID)
	require.Equal(t, []string{"description", "tab:Go scheduler"}, out.Items[1].Matches)
	require.Equal(t, 2, out.Pagination.Total)
	require.False(t, out.Pagination.HasMore)
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	env := newTestEnv(t)
	seedSearch(t, env)

	out, err := Search(context.Background(), env.deps, SearchInput{Query: "kernel go"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	require.Equal(t, "w1", out.Items[0].ID)
	require.Equal(t, 1, out.Items[0].TabCount)

	out, err = Search(context.Background(), env.deps, SearchInput{Query: "kernel pasta"})
	require.NoError(t, err)
	require.NotNil(t, out.Items)
	require.Empty(t, out.Items)
}

func TestSearch_TabTitles(t *testing.T) {
	env := newTestEnv(t)
	seedSearch(t, env)

	out, err := Search(context.Background(), env.deps, SearchInput{Query: "pasta"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	require.Equal(t, "w3", out.Items[0].ID)
	require.Equal(t, []string{"tab:Search: pasta"}, out.Items[0].Matches)
}

func TestSearch_Pagination(t *testing.T) {
	env := newTestEnv(t)
	seedSearch(t, env)

	out, err := Search(context.Background(), env.deps, SearchInput{Query: "scheduler", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	require.Equal(t, "w1", out.Items[0].ID)
	require.False(t, out.Pagination.HasMore)

	out, err = Search(context.Background(), env.deps, SearchInput{Query: "scheduler", Limit: 500})
	require.NoError(t, err)
	require.Equal(t, MaxSearchLimit, out.Pagination.Limit)
}

func TestSearch_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := Search(context.Background(), env.deps, SearchInput{Query: "  "})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Search(context.Background(), env.deps, SearchInput{Query: strings.Repeat("x", MaxQueryLength+1)})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
