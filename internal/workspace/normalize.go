package workspace

import (
	"encoding/json"
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName folds a workspace name for lookup and ambiguity checks:
// trimmed, lowercased, internal whitespace collapsed.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Normalize repairs a collection in place so every invariant holds:
// workspaces is never nil, ids are unique (first occurrence wins),
// tabs are never nil, titles are non-empty, updatedAt >= createdAt,
// and the current pointer is either empty or names an existing workspace.
// It reports whether anything had to change.
func (c *Collection) Normalize() bool {
	repaired := false
	if c.Workspaces == nil {
		c.Workspaces = []Workspace{}
		repaired = true
	}

	seen := make(map[string]bool, len(c.Workspaces))
	kept := c.Workspaces[:0]
	for _, w := range c.Workspaces {
		if w.ID == "" || seen[w.ID] {
			repaired = true
			continue
		}
		seen[w.ID] = true
		if w.normalize() {
			repaired = true
		}
		kept = append(kept, w)
	}
	c.Workspaces = kept

	if c.CurrentWorkspaceID != "" && !seen[c.CurrentWorkspaceID] {
		c.CurrentWorkspaceID = ""
		repaired = true
	}
	return repaired
}

func (w *Workspace) normalize() bool {
	repaired := false
	if name := strings.TrimSpace(w.Name); name != w.Name {
		w.Name = name
		repaired = true
	}
	if w.Name == "" {
		w.Name = "Untitled workspace"
		repaired = true
	}
	if w.Tabs == nil {
		w.Tabs = []TabDescriptor{}
		repaired = true
	}
	for i := range w.Tabs {
		t := &w.Tabs[i]
		if t.Kind == "" {
			t.Kind = KindCustom
			repaired = true
		}
		if strings.TrimSpace(t.Title) == "" {
			t.Title = PlaceholderTitle(t.Kind)
			repaired = true
		}
	}
	if w.UpdatedAt < w.CreatedAt {
		w.UpdatedAt = w.CreatedAt
		repaired = true
	}
	return repaired
}

// DecodeCollection decodes a persisted collection, discarding whatever is
// malformed instead of failing. The result always satisfies Normalize.
// The second return value reports whether the input needed repair.
func DecodeCollection(data []byte) (*Collection, bool) {
	c := NewCollection()
	if len(strings.TrimSpace(string(data))) == 0 {
		return c, false
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return c, true
	}

	repaired := false
	if raw, ok := root["workspaces"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			repaired = true
		}
		for _, item := range items {
			w, ok := decodeWorkspace(item)
			if !ok {
				repaired = true
				continue
			}
			c.Workspaces = append(c.Workspaces, w)
		}
	} else {
		repaired = true
	}

	if raw, ok := root["currentWorkspaceId"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			repaired = true
		}
		c.CurrentWorkspaceID = strings.TrimSpace(id)
	}

	if c.Normalize() {
		repaired = true
	}
	return c, repaired
}

// rawWorkspace mirrors Workspace with tabs left undecoded so that one bad
// tab does not cost the whole workspace.
type rawWorkspace struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tabs        []json.RawMessage `json:"tabs"`
	CreatedAt   int64             `json:"createdAt"`
	UpdatedAt   int64             `json:"updatedAt"`
}

func decodeWorkspace(data []byte) (Workspace, bool) {
	var rw rawWorkspace
	if err := json.Unmarshal(data, &rw); err != nil {
		return Workspace{}, false
	}
	if strings.TrimSpace(rw.ID) == "" {
		return Workspace{}, false
	}
	w := Workspace{
		ID:          strings.TrimSpace(rw.ID),
		Name:        rw.Name,
		Description: rw.Description,
		Tabs:        make([]TabDescriptor, 0, len(rw.Tabs)),
		CreatedAt:   rw.CreatedAt,
		UpdatedAt:   rw.UpdatedAt,
	}
	for _, rt := range rw.Tabs {
		var t TabDescriptor
		if err := json.Unmarshal(rt, &t); err != nil {
			continue
		}
		w.Tabs = append(w.Tabs, t)
	}
	return w, true
}

// EncodeCollection serializes a collection in its persisted form.
func EncodeCollection(c *Collection) ([]byte, error) {
	if c == nil {
		c = NewCollection()
	}
	out := c.Clone()
	out.Normalize()
	return json.Marshal(out)
}
