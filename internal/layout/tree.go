package layout

import (
	"context"
	"fmt"
	"sync"

	"github.com/hpungsan/nook/internal/workspace"
)

// Element instances.
const (
	InstanceLayout = "Layout"
	InstanceWnd    = "Wnd"
	InstanceTab    = "Tab"
)

// Element is one node of a serialized layout document. Layout elements
// nest, Wnd elements group tabs, Tab elements are leaves.
type Element struct {
	Instance string            `json:"instance"`
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Type     string            `json:"type,omitempty"`
	URL      string            `json:"url,omitempty"`
	Data     map[string]any    `json:"data,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Editor   *EditorSession    `json:"editor,omitempty"`
	DOM      map[string]string `json:"dom,omitempty"`
	Children []*Element        `json:"children,omitempty"`
}

// Clone returns a deep copy of the element subtree.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := *e
	out.Data = workspace.Payload(e.Data).Clone()
	out.Attrs = cloneStrings(e.Attrs)
	out.DOM = cloneStrings(e.DOM)
	if e.Editor != nil {
		ed := *e.Editor
		out.Editor = &ed
	}
	if e.Children != nil {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

func (e *Element) handle() Handle {
	return Handle{
		ID:     e.ID,
		Title:  e.Title,
		Icon:   e.Icon,
		Type:   e.Type,
		URL:    e.URL,
		Data:   e.Data,
		Attrs:  e.Attrs,
		Editor: e.Editor,
		DOM:    e.DOM,
	}
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tree is an in-memory layout. It implements Provider, Opener, URLOpener
// and TabRemover, and is safe for concurrent use.
type Tree struct {
	mu    sync.Mutex
	root  *Element
	newID func() string
}

// NewTree wraps root. A nil root behaves as an unavailable layout until a
// tab is opened. newID supplies ids for opened tabs that carry none.
func NewTree(root *Element, newID func() string) *Tree {
	return &Tree{root: root, newID: newID}
}

// Root returns a copy of the current layout document.
func (t *Tree) Root() *Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.Clone()
}

// Layout returns a snapshot of the tree whose layout nodes remove tabs
// from t.
func (t *Tree) Layout(ctx context.Context) (Node, error) {
	return t.View(t)
}

// View returns a snapshot of the tree whose layout nodes delegate tab
// removal to remover.
func (t *Tree) View(remover TabRemover) (Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		return nil, ErrUnavailable
	}
	return wrap(t.root.Clone(), remover), nil
}

// Open appends a tab for req to the first tab group, creating one if needed.
func (t *Tree) Open(ctx context.Context, req OpenRequest) (string, error) {
	if req.Kind == "" {
		return "", fmt.Errorf("%w: empty kind", ErrUnsupported)
	}
	el := &Element{
		Instance: InstanceTab,
		ID:       req.ID,
		Title:    Title(req.Title, req.Kind, req.Payload),
		Icon:     req.Icon,
		Type:     string(req.Kind),
		Data:     req.Payload.Clone(),
	}
	if u, ok := BuildURL(req.Kind, req.Payload); ok {
		el.URL = u
	}
	return t.insert(el), nil
}

// OpenURL appends a tab for a reference URL.
func (t *Tree) OpenURL(ctx context.Context, raw string) (string, error) {
	kind, payload, ok := ParseURL(raw)
	if !ok {
		return "", fmt.Errorf("%w: url %q", ErrUnsupported, raw)
	}
	el := &Element{
		Instance: InstanceTab,
		Title:    Title("", kind, payload),
		Type:     string(kind),
		URL:      raw,
		Data:     payload,
	}
	return t.insert(el), nil
}

// RemoveTab deletes the first tab with the given id.
func (t *Tree) RemoveTab(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil || !removeElement(t.root, id) {
		return fmt.Errorf("tab %q not found", id)
	}
	return nil
}

func (t *Tree) insert(el *Element) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if el.ID == "" && t.newID != nil {
		el.ID = t.newID()
	}
	if t.root == nil {
		t.root = &Element{Instance: InstanceLayout}
	}
	wnd := firstWnd(t.root)
	if wnd == nil {
		wnd = &Element{Instance: InstanceWnd}
		t.root.Children = append(t.root.Children, wnd)
	}
	wnd.Children = append(wnd.Children, el)
	return el.ID
}

func firstWnd(e *Element) *Element {
	if e == nil {
		return nil
	}
	if e.Instance == InstanceWnd {
		return e
	}
	for _, c := range e.Children {
		if c == nil || c.Instance == InstanceTab {
			continue
		}
		if w := firstWnd(c); w != nil {
			return w
		}
	}
	return nil
}

func removeElement(e *Element, id string) bool {
	for i, c := range e.Children {
		if c == nil {
			continue
		}
		if c.Instance == InstanceTab && c.ID == id {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return true
		}
		if c.Instance != InstanceTab && removeElement(c, id) {
			return true
		}
	}
	return false
}

func wrap(e *Element, remover TabRemover) Node {
	switch e.Instance {
	case InstanceTab:
		return &tabNode{el: e}
	case InstanceWnd:
		return &groupNode{el: e, remover: remover}
	default:
		return &layoutNode{el: e, remover: remover}
	}
}

func wrapChildren(children []*Element, remover TabRemover) []Node {
	nodes := make([]Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			nodes = append(nodes, wrap(c, remover))
		}
	}
	return nodes
}

type layoutNode struct {
	el      *Element
	remover TabRemover
}

func (n *layoutNode) Children() []Node { return wrapChildren(n.el.Children, n.remover) }

func (n *layoutNode) RemoveTab(ctx context.Context, id string) error {
	return n.remover.RemoveTab(ctx, id)
}

type groupNode struct {
	el      *Element
	remover TabRemover
}

func (n *groupNode) Children() []Node { return wrapChildren(n.el.Children, n.remover) }
func (n *groupNode) TabGroup()        {}

type tabNode struct {
	el *Element
}

func (n *tabNode) Children() []Node { return nil }
func (n *tabNode) Handle() Handle   { return n.el.handle() }
