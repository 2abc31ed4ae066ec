package workspace

import (
	"encoding/json"
	"strings"
)

// Kind tags what a tab shows and how it is reopened.
type Kind string

const (
	KindDocument Kind = "document"
	KindSearch   Kind = "search"
	KindGraph    Kind = "graph"
	KindOutline  Kind = "outline"
	KindBacklink Kind = "backlink"
	KindFile     Kind = "file"
	KindAsset    Kind = "asset"
	KindCustom   Kind = "custom"
)

// Kinds lists every tab kind in canonical order.
var Kinds = []Kind{
	KindDocument, KindSearch, KindGraph, KindOutline,
	KindBacklink, KindFile, KindAsset, KindCustom,
}

// ParseKind parses a kind tag. The legacy tag "doc" maps to KindDocument.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "doc" {
		return KindDocument, true
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// UnmarshalJSON accepts legacy and unknown tags; unknown tags decode as KindCustom.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*k = KindCustom
		return nil
	}
	parsed, ok := ParseKind(s)
	if !ok {
		parsed = KindCustom
	}
	*k = parsed
	return nil
}

// Well-known payload keys.
const (
	PayloadID      = "id"
	PayloadKeyword = "keyword"
	PayloadPath    = "path"
	PayloadURL     = "url"
)

// Payload is kind-specific tab data. Only the layout package interprets it.
type Payload map[string]any

// String returns the trimmed string value stored under key, or "".
func (p Payload) String(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return strings.TrimSpace(s)
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(tv))
		for k, e := range tv {
			m[k] = cloneValue(e)
		}
		return m
	case Payload:
		return tv.Clone()
	case []any:
		s := make([]any, len(tv))
		for i, e := range tv {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// TabDescriptor is the stored form of one open tab.
type TabDescriptor struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	Payload Payload `json:"payload,omitempty"`
	Title   string  `json:"title"`
	Icon    string  `json:"icon,omitempty"`
}

// Clone returns a deep copy of the descriptor.
func (t TabDescriptor) Clone() TabDescriptor {
	t.Payload = t.Payload.Clone()
	return t
}

// PlaceholderTitle is the title used when the host supplies none.
func PlaceholderTitle(kind Kind) string {
	if kind == "" {
		kind = KindCustom
	}
	return "Untitled " + string(kind)
}

// Workspace is a named snapshot of open tabs.
// Timestamps are Unix milliseconds.
type Workspace struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tabs        []TabDescriptor `json:"tabs"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// Clone returns a deep copy of the workspace.
func (w Workspace) Clone() Workspace {
	tabs := make([]TabDescriptor, len(w.Tabs))
	for i, t := range w.Tabs {
		tabs[i] = t.Clone()
	}
	w.Tabs = tabs
	return w
}

// Touch refreshes UpdatedAt without ever moving it backwards.
func (w *Workspace) Touch(nowMillis int64) {
	if nowMillis > w.UpdatedAt {
		w.UpdatedAt = nowMillis
	}
}

// Collection is the persisted root: every workspace plus the current pointer.
// An empty CurrentWorkspaceID means no workspace is active.
type Collection struct {
	Workspaces         []Workspace `json:"workspaces"`
	CurrentWorkspaceID string      `json:"currentWorkspaceId,omitempty"`
}

// NewCollection returns an empty collection with no current workspace.
func NewCollection() *Collection {
	return &Collection{Workspaces: []Workspace{}}
}

// Find returns the workspace with the given id and its index, or nil and -1.
func (c *Collection) Find(id string) (*Workspace, int) {
	if c == nil || id == "" {
		return nil, -1
	}
	for i := range c.Workspaces {
		if c.Workspaces[i].ID == id {
			return &c.Workspaces[i], i
		}
	}
	return nil, -1
}

// Current returns the current workspace, or nil when none is active.
func (c *Collection) Current() *Workspace {
	if c == nil {
		return nil
	}
	w, _ := c.Find(c.CurrentWorkspaceID)
	return w
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return NewCollection()
	}
	out := &Collection{
		Workspaces:         make([]Workspace, len(c.Workspaces)),
		CurrentWorkspaceID: c.CurrentWorkspaceID,
	}
	for i, w := range c.Workspaces {
		out.Workspaces[i] = w.Clone()
	}
	return out
}
