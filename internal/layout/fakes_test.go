package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hpungsan/nook/internal/workspace"
)

// Hand-built node types for shapes the Tree never produces.

type plainNode struct{ children []Node }

func (n *plainNode) Children() []Node { return n.children }

type groupOnly struct{ children []Node }

func (n *groupOnly) Children() []Node { return n.children }
func (n *groupOnly) TabGroup()        {}

type handleTab struct{ h Handle }

func (n *handleTab) Children() []Node { return nil }
func (n *handleTab) Handle() Handle   { return n.h }

type staticProvider struct {
	root Node
	err  error
}

func (p *staticProvider) Layout(ctx context.Context) (Node, error) { return p.root, p.err }

// recordingRemover records removal order and fails for selected ids.
type recordingRemover struct {
	plainNode
	mu      sync.Mutex
	removed []string
	fail    map[string]bool
}

func (r *recordingRemover) RemoveTab(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[id] {
		return fmt.Errorf("cannot remove %s", id)
	}
	r.removed = append(r.removed, id)
	return nil
}

// recordingOpener records open requests and fails for selected ids.
type recordingOpener struct {
	opened []OpenRequest
	fail   map[string]bool
}

func (o *recordingOpener) Open(ctx context.Context, req OpenRequest) (string, error) {
	if o.fail[req.ID] {
		return "", errors.New("open rejected")
	}
	o.opened = append(o.opened, req)
	return req.ID, nil
}

type recordingURLOpener struct {
	urls []string
	fail bool
}

func (o *recordingURLOpener) OpenURL(ctx context.Context, url string) (string, error) {
	if o.fail {
		return "", errors.New("url rejected")
	}
	o.urls = append(o.urls, url)
	return url, nil
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func sampleTabs() []workspace.TabDescriptor {
	return []workspace.TabDescriptor{
		{ID: "t1", Kind: workspace.KindDocument, Payload: workspace.Payload{"id": "20240101-aaa"}, Title: "Notes", Icon: "1f4d3"},
		{ID: "t2", Kind: workspace.KindSearch, Payload: workspace.Payload{"keyword": "golang"}, Title: "Search: golang"},
		{ID: "t3", Kind: workspace.KindGraph, Payload: workspace.Payload{"id": "20240101-bbb"}, Title: "Graph"},
		{ID: "t4", Kind: workspace.KindFile, Payload: workspace.Payload{"path": "/tmp/report.pdf"}, Title: "report.pdf"},
		{ID: "t5", Kind: workspace.KindCustom, Payload: workspace.Payload{"plugin": "kanban", "board": "todo"}, Title: "Board"},
		{ID: "t6", Kind: workspace.KindOutline, Payload: workspace.Payload{"id": "20240101-ccc"}, Title: "Outline"},
		{ID: "t7", Kind: workspace.KindBacklink, Payload: workspace.Payload{"id": "20240101-ddd"}, Title: "Backlinks"},
		{ID: "t8", Kind: workspace.KindAsset, Payload: workspace.Payload{"path": "assets/diagram.png"}, Title: "diagram.png"},
		{ID: "t9", Kind: workspace.KindGraph, Payload: workspace.Payload{}, Title: "Global graph"},
		{ID: "t10", Kind: workspace.KindOutline, Title: "Outline (no doc)"},
	}
}
