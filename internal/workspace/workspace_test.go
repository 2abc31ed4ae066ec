package workspace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"document", KindDocument, true},
		{"doc", KindDocument, true},
		{" Search ", KindSearch, true},
		{"graph", KindGraph, true},
		{"asset", KindAsset, true},
		{"custom", KindCustom, true},
		{"spreadsheet", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKindUnmarshal_LegacyAndUnknown(t *testing.T) {
	var tabs []TabDescriptor
	err := json.Unmarshal([]byte(`[{"id":"a","kind":"doc","title":"A"},{"id":"b","kind":"kanban","title":"B"}]`), &tabs)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	require.Equal(t, KindDocument, tabs[0].Kind)
	require.Equal(t, KindCustom, tabs[1].Kind)
}

func TestPlaceholderTitle(t *testing.T) {
	require.Equal(t, "Untitled graph", PlaceholderTitle(KindGraph))
	require.Equal(t, "Untitled custom", PlaceholderTitle(""))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "deep work", NormalizeName("  Deep   WORK \t"))
	require.Equal(t, "", NormalizeName(" \n "))
}

func TestClone_IsDeep(t *testing.T) {
	c := &Collection{
		Workspaces: []Workspace{{
			ID:   "w1",
			Name: "One",
			Tabs: []TabDescriptor{{
				ID: "t1", Kind: KindDocument, Title: "Doc",
				Payload: Payload{"id": "20240101", "nested": map[string]any{"k": "v"}},
			}},
		}},
		CurrentWorkspaceID: "w1",
	}

	cp := c.Clone()
	cp.Workspaces[0].Name = "Changed"
	cp.Workspaces[0].Tabs[0].Payload["id"] = "other"
	cp.Workspaces[0].Tabs[0].Payload["nested"].(map[string]any)["k"] = "changed"

	require.Equal(t, "One", c.Workspaces[0].Name)
	require.Equal(t, "20240101", c.Workspaces[0].Tabs[0].Payload["id"])
	require.Equal(t, "v", c.Workspaces[0].Tabs[0].Payload["nested"].(map[string]any)["k"])
}

func TestTouch_NeverMovesBackwards(t *testing.T) {
	w := Workspace{CreatedAt: 100, UpdatedAt: 200}
	w.Touch(150)
	require.EqualValues(t, 200, w.UpdatedAt)
	w.Touch(300)
	require.EqualValues(t, 300, w.UpdatedAt)
}

func TestCollectionFindAndCurrent(t *testing.T) {
	c := &Collection{Workspaces: []Workspace{{ID: "a"}, {ID: "b"}}, CurrentWorkspaceID: "b"}

	w, idx := c.Find("b")
	require.NotNil(t, w)
	require.Equal(t, 1, idx)

	w, idx = c.Find("zzz")
	require.Nil(t, w)
	require.Equal(t, -1, idx)

	require.Equal(t, "b", c.Current().ID)
	c.CurrentWorkspaceID = ""
	require.Nil(t, c.Current())
}

func TestNormalize_RepairsInvariants(t *testing.T) {
	c := &Collection{
		Workspaces: []Workspace{
			{ID: "a", Name: " A ", CreatedAt: 10, UpdatedAt: 5},
			{ID: "a", Name: "duplicate"},
			{ID: "", Name: "no id"},
			{ID: "b", Name: "", Tabs: []TabDescriptor{{ID: "t", Kind: KindSearch}}},
		},
		CurrentWorkspaceID: "gone",
	}

	require.True(t, c.Normalize())
	require.Len(t, c.Workspaces, 2)
	require.Equal(t, "A", c.Workspaces[0].Name)
	require.NotNil(t, c.Workspaces[0].Tabs)
	require.EqualValues(t, 10, c.Workspaces[0].UpdatedAt)
	require.Equal(t, "Untitled workspace", c.Workspaces[1].Name)
	require.Equal(t, "Untitled search", c.Workspaces[1].Tabs[0].Title)
	require.Empty(t, c.CurrentWorkspaceID)

	require.False(t, c.Normalize(), "second pass should be a no-op")
}

func TestDecodeCollection_Valid(t *testing.T) {
	data := []byte(`{
		"workspaces": [
			{"id":"w1","name":"Research","tabs":[
				{"id":"t1","kind":"document","payload":{"id":"20240101-abc"},"title":"Notes"},
				{"id":"t2","kind":"search","payload":{"keyword":"go"},"title":"Search: go"}
			],"createdAt":1,"updatedAt":2}
		],
		"currentWorkspaceId":"w1"
	}`)

	c, repaired := DecodeCollection(data)
	require.False(t, repaired)
	require.Len(t, c.Workspaces, 1)
	require.Equal(t, "w1", c.CurrentWorkspaceID)
	require.Len(t, c.Workspaces[0].Tabs, 2)
	require.Equal(t, "go", c.Workspaces[0].Tabs[1].Payload.String(PayloadKeyword))
}

func TestDecodeCollection_Tolerant(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		workspaces int
		current    string
	}{
		{name: "empty input", data: ``, workspaces: 0},
		{name: "garbage", data: `not json at all`, workspaces: 0},
		{name: "array root", data: `[1,2,3]`, workspaces: 0},
		{name: "null workspaces", data: `{"workspaces":null}`, workspaces: 0},
		{name: "workspaces wrong type", data: `{"workspaces":"nope","currentWorkspaceId":"x"}`, workspaces: 0},
		{name: "missing current", data: `{"workspaces":[{"id":"a","name":"A","tabs":[]}]}`, workspaces: 1},
		{name: "dangling current", data: `{"workspaces":[{"id":"a","name":"A"}],"currentWorkspaceId":"b"}`, workspaces: 1},
		{name: "current wrong type", data: `{"workspaces":[{"id":"a","name":"A"}],"currentWorkspaceId":7}`, workspaces: 1},
		{name: "bad element skipped", data: `{"workspaces":[42,{"id":"a","name":"A"}],"currentWorkspaceId":"a"}`, workspaces: 1, current: "a"},
		{name: "bad tab skipped", data: `{"workspaces":[{"id":"a","name":"A","tabs":["x",{"id":"t","kind":"graph"}]}]}`, workspaces: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := DecodeCollection([]byte(tt.data))
			require.NotNil(t, c)
			require.NotNil(t, c.Workspaces)
			require.Len(t, c.Workspaces, tt.workspaces)
			require.Equal(t, tt.current, c.CurrentWorkspaceID)
		})
	}
}

func TestDecodeCollection_BadTabKeepsOthers(t *testing.T) {
	c, _ := DecodeCollection([]byte(`{"workspaces":[{"id":"a","name":"A","tabs":["x",{"id":"t","kind":"graph"}]}]}`))
	require.Len(t, c.Workspaces[0].Tabs, 1)
	require.Equal(t, KindGraph, c.Workspaces[0].Tabs[0].Kind)
	require.Equal(t, "Untitled graph", c.Workspaces[0].Tabs[0].Title)
}

func TestEncodeDecode_PreservesCollection(t *testing.T) {
	c := &Collection{
		Workspaces: []Workspace{{
			ID: "w1", Name: "One", Description: "desc",
			Tabs: []TabDescriptor{{ID: "t1", Kind: KindFile, Payload: Payload{"path": "/a/b.pdf"}, Title: "b.pdf"}},
			CreatedAt: 1, UpdatedAt: 3,
		}},
		CurrentWorkspaceID: "w1",
	}

	data, err := EncodeCollection(c)
	require.NoError(t, err)

	got, repaired := DecodeCollection(data)
	require.False(t, repaired)
	require.Equal(t, c, got)
}

func TestEncodeCollection_NilWritesEmptyArray(t *testing.T) {
	data, err := EncodeCollection(nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"workspaces":[]}`, string(data))
}
